package middleware

import (
	"time"

	"routine_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		if uid, ok := UserID(c); ok {
			args = append(args, "user_id", uid)
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(ctx, "request", args...)
		case c.Writer.Status() >= 400:
			logger.WarnContext(ctx, "request", args...)
		default:
			logger.InfoContext(ctx, "request", args...)
		}
	}
}
