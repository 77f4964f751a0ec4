package repository

import (
	"context"
	"sync"
	"time"

	"routine_tracker/internal/domain"
)

// MemoryAuditRepository keeps audit entries in process memory for DEV_MODE and tests.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries []domain.AuditLog
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Create(_ context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *log)
	return nil
}

// GetByUserID returns the user's entries, newest first.
func (r *MemoryAuditRepository) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.AuditLog, 0)
	for i := len(r.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		e := r.entries[i]
		out = append(out, &e)
	}
	return out, nil
}
