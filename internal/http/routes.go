package http

import (
	"routine_tracker/internal/config"
	"routine_tracker/internal/http/handlers"
	"routine_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires every endpoint. Limits come from cfg; the shared Redis
// client must already be passed to middleware.InitRedisRateLimiter.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, cfg *config.Config) {
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiRL := middleware.RateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow)
	authRL := middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	session := middleware.Session(h.Auth)
	writeRL := middleware.UserRateLimit("write", cfg.WriteRateLimit, cfg.WriteRateWindow)

	app := r.Group("/")
	app.Use(apiRL)
	{
		app.POST("/register/", authRL, h.Register)
		app.POST("/login/", authRL, h.Login)
		app.POST("/logout/", session, h.Logout)

		app.GET("/", session, h.Board)
		app.POST("/add/", session, writeRL, h.AddTask)
		app.POST("/edit/:id/", session, writeRL, h.EditTask)
		app.POST("/delete/:id/", session, writeRL, h.DeleteTask)
		app.POST("/toggle/:id/", session, writeRL, h.ToggleTask)
		app.GET("/stats/", session, h.Stats)
		app.GET("/profile/", session, h.Profile)
	}

	api := r.Group("/api")
	api.Use(apiRL, session)
	{
		api.GET("/tasks", h.Board)
		api.GET("/tasks/all", h.ListTasks)
		api.GET("/tasks/:id", h.GetTask)
	}
}
