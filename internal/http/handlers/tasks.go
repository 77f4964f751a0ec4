package handlers

import (
	"fmt"
	"net/http"
	"time"

	"routine_tracker/internal/domain"
	"routine_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

const taskConflictMessage = "You already have a task with this title on that date."

type taskForm struct {
	Title *string `form:"title" json:"title"`
	Date  *string `form:"date" json:"date"`
}

// date parses the optional date field; an empty value counts as absent.
func (f taskForm) date() (*time.Time, error) {
	if f.Date == nil || *f.Date == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*f.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "Enter a valid date in YYYY-MM-DD format.")
	}
	return &d, nil
}

type taskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Date:      t.Date.Format(domain.DateLayout),
		IsDone:    t.IsDone,
		CreatedAt: t.CreatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// Board renders today's, tomorrow's and later tasks.
func (h *Handler) Board(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	b, err := h.Tasks.Board(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today":          b.Today.Format(domain.DateLayout),
		"tomorrow":       b.Tomorrow.Format(domain.DateLayout),
		"tasks_today":    toTaskResponses(b.TasksToday),
		"tasks_tomorrow": toTaskResponses(b.TasksTomorrow),
		"tasks_upcoming": toTaskResponses(b.TasksUpcoming),
	})
}

// ListTasks returns every task of the user, optionally filtered by ?q=.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

func (h *Handler) AddTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	date, err := form.date()
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	title := ""
	if form.Title != nil {
		title = *form.Title
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, title, date)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Task added successfully!",
		"task":    toTaskResponse(task),
	})
}

func (h *Handler) EditTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	date, err := form.date()
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), id, userID, form.Title, date)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully!",
		"task":    toTaskResponse(task),
	})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully!"})
}

func (h *Handler) ToggleTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Toggle(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}

	status := "marked as incomplete"
	if task.IsDone {
		status = "completed"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf(`Task "%s" %s!`, task.Title, status),
		"task":    toTaskResponse(task),
	})
}

func (h *Handler) Stats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.Tasks.MonthlyStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, taskConflictMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_tasks":          stats.TotalTasks,
		"completed_tasks":      stats.CompletedTasks,
		"percentage_completed": stats.PercentageCompleted,
		"current_month":        stats.CurrentMonth,
		"recent_tasks":         toTaskResponses(stats.RecentTasks),
	})
}
