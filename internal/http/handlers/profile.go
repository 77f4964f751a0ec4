package handlers

import (
	"net/http"

	"routine_tracker/internal/http/middleware"
	"routine_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

const profileActivityLimit = 10

func (h *Handler) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Auth.User(ctx, userID)
	if err != nil {
		respondError(c, err, "")
		return
	}

	counts, err := h.Tasks.Counts(ctx, userID)
	if err != nil {
		respondError(c, err, "")
		return
	}

	// activity is best effort
	activity, err := h.Audit.GetUserAuditLogs(ctx, userID, profileActivityLimit)
	if err != nil {
		logger.WarnContext(ctx, "failed to load audit logs", "user_id", userID, "error", err)
	}

	recent := make([]gin.H, 0, len(activity))
	for _, a := range activity {
		recent = append(recent, gin.H{
			"action":     a.Action,
			"details":    a.Details,
			"created_at": a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            userResponse(user),
		"tasks_count":     counts.Total,
		"completed_tasks": counts.Completed,
		"recent_activity": recent,
	})
}
