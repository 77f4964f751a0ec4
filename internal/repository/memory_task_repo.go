package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"routine_tracker/internal/domain"
)

// MemoryTaskRepository is the in-process task store used in DEV_MODE and tests.
// It mirrors the Postgres repository, including the (owner, title, date)
// unique constraint, which is checked under the same lock as the insert.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]domain.Task
	now    func() time.Time
}

func NewMemoryTaskRepository(now func() time.Time) *MemoryTaskRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryTaskRepository{tasks: make(map[int64]domain.Task), now: now}
}

func (r *MemoryTaskRepository) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.duplicateLocked(0, t.UserID, t.Title, t.Date) {
		return domain.ErrConflict
	}

	r.nextID++
	t.ID = r.nextID
	t.IsDone = false
	t.Date = domain.DateOf(t.Date)
	t.CreatedAt = r.now()
	r.tasks[t.ID] = *t
	return nil
}

func (r *MemoryTaskRepository) GetForOwner(_ context.Context, id, ownerID int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, id, ownerID int64, title *string, date *time.Time) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if date != nil {
		t.Date = domain.DateOf(*date)
	}
	if r.duplicateLocked(id, t.UserID, t.Title, t.Date) {
		return nil, domain.ErrConflict
	}
	r.tasks[id] = t
	return &t, nil
}

func (r *MemoryTaskRepository) Toggle(_ context.Context, id, ownerID int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	t.IsDone = !t.IsDone
	r.tasks[id] = t
	return &t, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) ListByOwner(_ context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	query = strings.ToLower(query)
	res := r.filter(func(t domain.Task) bool {
		return t.UserID == ownerID && (query == "" || strings.Contains(strings.ToLower(t.Title), query))
	})
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return createdBefore(a, b)
	})
	return res, nil
}

func (r *MemoryTaskRepository) ListByOwnerAndDate(_ context.Context, ownerID int64, date time.Time) ([]*domain.Task, error) {
	day := domain.DateOf(date)
	res := r.filter(func(t domain.Task) bool {
		return t.UserID == ownerID && t.Date.Equal(day)
	})
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.IsDone != b.IsDone {
			return !a.IsDone
		}
		return createdBefore(a, b)
	})
	return res, nil
}

func (r *MemoryTaskRepository) ListByOwnerDateAfter(_ context.Context, ownerID int64, date time.Time) ([]*domain.Task, error) {
	day := domain.DateOf(date)
	res := r.filter(func(t domain.Task) bool {
		return t.UserID == ownerID && t.Date.After(day)
	})
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.IsDone != b.IsDone {
			return !a.IsDone
		}
		return createdBefore(a, b)
	})
	return res, nil
}

func (r *MemoryTaskRepository) CountForOwnerInMonth(_ context.Context, ownerID int64, year int, month time.Month, loc *time.Location) (domain.TaskCounts, error) {
	start, end := domain.MonthWindow(year, month, loc)
	return r.count(func(t domain.Task) bool {
		return t.UserID == ownerID && !t.CreatedAt.Before(start) && t.CreatedAt.Before(end)
	}), nil
}

func (r *MemoryTaskRepository) CountForOwner(_ context.Context, ownerID int64) (domain.TaskCounts, error) {
	return r.count(func(t domain.Task) bool { return t.UserID == ownerID }), nil
}

func (r *MemoryTaskRepository) RecentForOwner(_ context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
	res := r.filter(func(t domain.Task) bool { return t.UserID == ownerID })
	sort.Slice(res, func(i, j int) bool { return createdBefore(res[j], res[i]) })
	if limit < 0 {
		limit = 0
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *MemoryTaskRepository) duplicateLocked(skipID, ownerID int64, title string, date time.Time) bool {
	day := domain.DateOf(date)
	for id, t := range r.tasks {
		if id != skipID && t.UserID == ownerID && t.Title == title && t.Date.Equal(day) {
			return true
		}
	}
	return false
}

func (r *MemoryTaskRepository) filter(keep func(domain.Task) bool) []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := []*domain.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			t := t
			res = append(res, &t)
		}
	}
	return res
}

func (r *MemoryTaskRepository) count(keep func(domain.Task) bool) domain.TaskCounts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var c domain.TaskCounts
	for _, t := range r.tasks {
		if keep(t) {
			c.Total++
			if t.IsDone {
				c.Completed++
			}
		}
	}
	return c
}

// createdBefore orders by created_at, then id.
func createdBefore(a, b *domain.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
