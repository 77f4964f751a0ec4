package service

import (
	"context"

	"routine_tracker/internal/domain"
	"routine_tracker/internal/logger"
)

// AuditService handles audit logging. With a nil store entries only reach the log.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category, ip, userAgent string, details map[string]interface{}) {
	if s == nil {
		return
	}
	if s.repo == nil {
		logger.WithContext(ctx).Debug("audit", "action", action, "category", category, "user_id", userID)
		return
	}

	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.ErrorContext(ctx, "failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogTask records a task mutation
func (s *AuditService) LogTask(ctx context.Context, action string, task *domain.Task) {
	s.Log(ctx, task.UserID, action, domain.AuditCategoryTask, map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
		"date":    task.Date.Format(domain.DateLayout),
		"is_done": task.IsDone,
	})
}

// LogAuth records register/login/logout
func (s *AuditService) LogAuth(ctx context.Context, userID int64, action, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, action, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []*domain.AuditLog{}, nil
	}
	return s.repo.GetByUserID(ctx, userID, limit)
}
