package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"routine_tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

// RecentTasksLimit is how many tasks the stats view lists as recent activity.
const RecentTasksLimit = 5

// TaskServiceConfig holds configuration for the task service
type TaskServiceConfig struct {
	// Location decides what "today" and "this month" mean. Defaults to UTC.
	Location *time.Location
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// TaskService enforces the task lifecycle rules on top of a TaskStore.
type TaskService struct {
	store    TaskStore
	audit    *AuditService
	loc      *time.Location
	now      func() time.Time
	validate *validator.Validate
}

func NewTaskService(store TaskStore, audit *AuditService, cfg TaskServiceConfig) *TaskService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TaskService{
		store:    store,
		audit:    audit,
		loc:      cfg.Location,
		now:      cfg.Now,
		validate: newValidator(),
	}
}

type titleInput struct {
	Title string `json:"title" validate:"required,max=200"`
}

// Today is the current calendar day in the service's location.
func (s *TaskService) Today() time.Time {
	return domain.DateOf(s.now().In(s.loc))
}

// Create adds a task for owner. A nil date means today.
func (s *TaskService) Create(ctx context.Context, ownerID int64, title string, date *time.Time) (*domain.Task, error) {
	title, err := s.cleanTitle(title)
	if err != nil {
		return nil, s.fail("create", err)
	}

	day := s.Today()
	if date != nil {
		day = domain.DateOf(*date)
	}

	task := &domain.Task{UserID: ownerID, Title: title, Date: day}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, s.fail("create", err)
	}

	s.succeed(ctx, "create", domain.AuditActionTaskCreate, task)
	return task, nil
}

// Get returns one of owner's tasks.
func (s *TaskService) Get(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	task, err := s.store.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, wrap("get task", err)
	}
	return task, nil
}

// Update edits title and/or date. At least one must be given.
func (s *TaskService) Update(ctx context.Context, id, ownerID int64, title *string, date *time.Time) (*domain.Task, error) {
	if title == nil && date == nil {
		return nil, s.fail("update", domain.NewValidationError("", "provide at least one field: title or date"))
	}
	if title != nil {
		cleaned, err := s.cleanTitle(*title)
		if err != nil {
			return nil, s.fail("update", err)
		}
		title = &cleaned
	}
	if date != nil {
		day := domain.DateOf(*date)
		date = &day
	}

	task, err := s.store.Update(ctx, id, ownerID, title, date)
	if err != nil {
		return nil, s.fail("update", err)
	}

	s.succeed(ctx, "update", domain.AuditActionTaskUpdate, task)
	return task, nil
}

// Toggle flips is_done; it is the only way to change completion.
func (s *TaskService) Toggle(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	task, err := s.store.Toggle(ctx, id, ownerID)
	if err != nil {
		return nil, s.fail("toggle", err)
	}

	s.succeed(ctx, "toggle", domain.AuditActionTaskToggle, task)
	return task, nil
}

// Delete removes the task. Deleting an already deleted task is ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, id, ownerID int64) error {
	task, err := s.store.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return s.fail("delete", err)
	}
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return s.fail("delete", err)
	}

	s.succeed(ctx, "delete", domain.AuditActionTaskDelete, task)
	return nil
}

// List returns all of owner's tasks ordered by date then creation time.
func (s *TaskService) List(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	tasks, err := s.store.ListByOwner(ctx, ownerID, strings.TrimSpace(query))
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

// Board groups the owner's tasks into today, tomorrow and everything later.
type Board struct {
	Today         time.Time      `json:"today"`
	Tomorrow      time.Time      `json:"tomorrow"`
	TasksToday    []*domain.Task `json:"tasks_today"`
	TasksTomorrow []*domain.Task `json:"tasks_tomorrow"`
	TasksUpcoming []*domain.Task `json:"tasks_upcoming"`
}

func (s *TaskService) Board(ctx context.Context, ownerID int64) (*Board, error) {
	today := s.Today()
	tomorrow := today.AddDate(0, 0, 1)

	b := &Board{Today: today, Tomorrow: tomorrow}
	var err error
	if b.TasksToday, err = s.store.ListByOwnerAndDate(ctx, ownerID, today); err != nil {
		return nil, wrap("list today", err)
	}
	if b.TasksTomorrow, err = s.store.ListByOwnerAndDate(ctx, ownerID, tomorrow); err != nil {
		return nil, wrap("list tomorrow", err)
	}
	if b.TasksUpcoming, err = s.store.ListByOwnerDateAfter(ctx, ownerID, tomorrow); err != nil {
		return nil, wrap("list upcoming", err)
	}
	return b, nil
}

// MonthlyStats is the completion summary for the current calendar month.
type MonthlyStats struct {
	TotalTasks          int            `json:"total_tasks"`
	CompletedTasks      int            `json:"completed_tasks"`
	PercentageCompleted float64        `json:"percentage_completed"`
	CurrentMonth        string         `json:"current_month"`
	RecentTasks         []*domain.Task `json:"recent_tasks"`
}

// MonthlyStats counts tasks by created_at, not by scheduled date: a task
// recorded in May for a June day counts towards May.
func (s *TaskService) MonthlyStats(ctx context.Context, ownerID int64) (*MonthlyStats, error) {
	now := s.now().In(s.loc)

	counts, err := s.store.CountForOwnerInMonth(ctx, ownerID, now.Year(), now.Month(), s.loc)
	if err != nil {
		return nil, wrap("count month", err)
	}
	recent, err := s.store.RecentForOwner(ctx, ownerID, RecentTasksLimit)
	if err != nil {
		return nil, wrap("recent tasks", err)
	}

	return &MonthlyStats{
		TotalTasks:          counts.Total,
		CompletedTasks:      counts.Completed,
		PercentageCompleted: counts.PercentageCompleted(),
		CurrentMonth:        now.Format("January 2006"),
		RecentTasks:         recent,
	}, nil
}

// Counts returns the all-time totals shown on the profile page.
func (s *TaskService) Counts(ctx context.Context, ownerID int64) (domain.TaskCounts, error) {
	c, err := s.store.CountForOwner(ctx, ownerID)
	if err != nil {
		return domain.TaskCounts{}, wrap("count tasks", err)
	}
	return c, nil
}

func (s *TaskService) cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := s.validate.Struct(titleInput{Title: title}); err != nil {
		return "", toValidationError(err)
	}
	return title, nil
}

func (s *TaskService) succeed(ctx context.Context, op, action string, task *domain.Task) {
	TaskOperations.WithLabelValues(op, "ok").Inc()
	s.audit.LogTask(ctx, action, task)
}

func (s *TaskService) fail(op string, err error) error {
	TaskOperations.WithLabelValues(op, outcome(err)).Inc()
	return wrap(op+" task", err)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// wrap leaves domain errors untouched so callers can match them directly.
func wrap(what string, err error) error {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", what, err)
}
