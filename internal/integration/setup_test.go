package integration

import (
	"context"
	"os"
	"testing"

	"routine_tracker/internal/db"
	"routine_tracker/internal/domain"
	"routine_tracker/internal/migrations"
	"routine_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// connect skips the test unless DATABASE_URL points at a disposable database.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Apply(ctx, pool))
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     "it_" + uuid.NewString()[:8],
		Email:        "it@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, repository.NewUserRepository(pool).Create(context.Background(), u))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u
}
