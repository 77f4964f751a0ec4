package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"routine_tracker/internal/db"
	"routine_tracker/internal/domain"
	"routine_tracker/internal/logger"
	"routine_tracker/internal/repository"
	"routine_tracker/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "testuser", "username")
	email := flag.String("email", "testuser@example.com", "email")
	password := flag.String("password", "testpass123", "password")
	flag.Parse()

	_ = godotenv.Load()

	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	repo := repository.NewUserRepository(pool)

	u, err := repo.GetByUsername(ctx, *username)
	switch {
	case err == nil:
		logger.Info("user already exists", "id", u.ID)
	case errors.Is(err, domain.ErrNotFound):
		hash, err := service.NewPasswordHasher(service.DefaultBcryptCost).Hash(*password)
		if err != nil {
			logger.Fatal("hash password", "error", err)
		}
		u = &domain.User{Username: *username, Email: *email, PasswordHash: hash}
		if err := repo.Create(ctx, u); err != nil {
			logger.Fatal("create user failed", "error", err)
		}
		logger.Info("user created", "id", u.ID)
	default:
		logger.Fatal("get by username failed", "error", err)
	}

	token, _, err := service.NewTokenManager(secret, 24*time.Hour).Generate(u.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	logger.Info("fetched user", "id", u.ID, "username", u.Username, "created_at", u.CreatedAt, "token", token)
}
