package service

import (
	"context"
	"time"

	"routine_tracker/internal/domain"
)

// TaskStore is the persistence contract for tasks. Every call except Create
// is scoped by owner and reports a foreign task as domain.ErrNotFound.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	Update(ctx context.Context, id, ownerID int64, title *string, date *time.Time) (*domain.Task, error)
	Toggle(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error)
	ListByOwnerAndDate(ctx context.Context, ownerID int64, date time.Time) ([]*domain.Task, error)
	ListByOwnerDateAfter(ctx context.Context, ownerID int64, date time.Time) ([]*domain.Task, error)
	CountForOwnerInMonth(ctx context.Context, ownerID int64, year int, month time.Month, loc *time.Location) (domain.TaskCounts, error)
	CountForOwner(ctx context.Context, ownerID int64) (domain.TaskCounts, error)
	RecentForOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}
