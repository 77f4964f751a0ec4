package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routine_tracker/internal/config"
	"routine_tracker/internal/db"
	httpServer "routine_tracker/internal/http"
	"routine_tracker/internal/http/handlers"
	"routine_tracker/internal/http/middleware"
	"routine_tracker/internal/logger"
	"routine_tracker/internal/repository"
	"routine_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("failed to init logger", "error", err)
	}

	var (
		taskStore  service.TaskStore
		userStore  service.UserStore
		auditStore service.AuditStore
		deps       = map[string]handlers.Pinger{}
	)

	if cfg.DevMode && cfg.DatabaseURL == "" {
		logger.Warn("DEV_MODE without DATABASE_URL: using in-memory stores, data is lost on restart")
		taskStore = repository.NewMemoryTaskRepository(nil)
		userStore = repository.NewMemoryUserRepository()
		auditStore = repository.NewMemoryAuditRepository()
		deps["database"] = nil
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()

		taskStore = repository.NewTaskRepository(pool)
		userStore = repository.NewUserRepository(pool)
		auditStore = repository.NewAuditRepository(pool)
		deps["database"] = pool
	}

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
		deps["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	middleware.InitRedisRateLimiter(rdb)

	audit := service.NewAuditService(auditStore)
	tasks := service.NewTaskService(taskStore, audit, service.TaskServiceConfig{Location: cfg.Location})
	auth := service.NewAuthService(
		userStore,
		service.NewPasswordHasher(service.DefaultBcryptCost),
		service.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL),
		service.NewSessionStore(rdb),
		audit,
	)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r,
		handlers.NewHandler(tasks, auth, audit, cfg.CookieSecure),
		handlers.NewHealthHandler(version, deps),
		cfg,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "dev_mode", cfg.DevMode, "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
