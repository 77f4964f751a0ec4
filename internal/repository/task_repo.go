package repository

import (
	"context"
	"errors"
	"time"

	"routine_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, date, is_done, created_at`

// TaskRepository stores tasks in Postgres. Every method except Create is
// scoped by owner: a task owned by someone else behaves as if it did not exist.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts t and fills in its id, is_done and created_at.
// The (user_id, title, date) unique constraint is the duplicate guard.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, date)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_done, created_at`,
		t.UserID, t.Title, t.Date,
	).Scan(&t.ID, &t.IsDone, &t.CreatedAt)
	return mapError(err)
}

func (r *TaskRepository) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	return scanTask(row)
}

// Update changes title and/or date; nil arguments keep the stored value.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID int64, title *string, date *time.Time) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title), date = COALESCE($4::date, date)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, title, date,
	)
	return scanTask(row)
}

func (r *TaskRepository) Toggle(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks SET is_done = NOT is_done
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, ownerID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOwner returns every task of the owner in default order (date, created_at).
// A non-empty query keeps only titles containing it, case-insensitively.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND ($2 = '' OR strpos(lower(title), lower($2)) > 0)
		 ORDER BY date, created_at, id`,
		ownerID, query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) ListByOwnerAndDate(ctx context.Context, ownerID int64, date time.Time) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND date = $2
		 ORDER BY is_done, created_at, id`,
		ownerID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListByOwnerDateAfter returns tasks scheduled strictly after date.
func (r *TaskRepository) ListByOwnerDateAfter(ctx context.Context, ownerID int64, date time.Time) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND date > $2
		 ORDER BY date, is_done, created_at, id`,
		ownerID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// CountForOwnerInMonth counts tasks whose created_at (not date) falls in the
// given calendar month of loc.
func (r *TaskRepository) CountForOwnerInMonth(ctx context.Context, ownerID int64, year int, month time.Month, loc *time.Location) (domain.TaskCounts, error) {
	start, end := domain.MonthWindow(year, month, loc)
	var c domain.TaskCounts
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done)
		 FROM tasks
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`,
		ownerID, start, end,
	).Scan(&c.Total, &c.Completed)
	return c, err
}

func (r *TaskRepository) CountForOwner(ctx context.Context, ownerID int64) (domain.TaskCounts, error) {
	var c domain.TaskCounts
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done) FROM tasks WHERE user_id = $1`,
		ownerID,
	).Scan(&c.Total, &c.Completed)
	return c, err
}

// RecentForOwner returns the most recently created tasks first.
func (r *TaskRepository) RecentForOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
	if limit <= 0 {
		return []*domain.Task{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.IsDone, &t.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	res := []*domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.IsDone, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// mapError translates driver errors into the domain taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.ErrConflict
		case "23514", "22001": // check_violation, string_data_right_truncation
			return domain.NewValidationError("title", "must be between 1 and 200 characters")
		}
	}
	return err
}
