package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// counter increments a fixed-window counter for key and returns its new value.
type counter interface {
	incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type clientInfo struct {
	start  time.Time
	window time.Duration
	count  int64
}

// memoryCounter is the per-process fallback used when Redis is not configured.
type memoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func newMemoryCounter(now func() time.Time) *memoryCounter {
	if now == nil {
		now = time.Now
	}
	return &memoryCounter{clients: make(map[string]*clientInfo), now: now}
}

func (m *memoryCounter) incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) >= window {
		m.sweepLocked(now)
		ci = &clientInfo{start: now, window: window}
		m.clients[key] = ci
	}
	ci.count++
	return ci.count, nil
}

// sweepLocked drops windows that have already ended.
func (m *memoryCounter) sweepLocked(now time.Time) {
	for key, ci := range m.clients {
		if now.Sub(ci.start) >= ci.window {
			delete(m.clients, key)
		}
	}
}

func newCounter() counter {
	if redisClient != nil {
		return redisCounter{client: redisClient}
	}
	return newMemoryCounter(nil)
}

// RateLimit blocks client IPs that send more than maxRequests per window.
// Counters live in Redis when InitRedisRateLimiter was given a client, and in
// process memory otherwise.
func RateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(newCounter(), scope, maxRequests, window, func(c *gin.Context) (string, bool) {
		return c.ClientIP(), true
	})
}

// UserRateLimit limits requests per authenticated user rather than per IP.
// Session must run before it.
func UserRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(newCounter(), scope, maxRequests, window, func(c *gin.Context) (string, bool) {
		uid, ok := UserID(c)
		if !ok {
			return "", false
		}
		return "user:" + strconv.FormatInt(uid, 10), true
	})
}

func limit(ctr counter, scope string, maxRequests int, window time.Duration, ident func(*gin.Context) (string, bool)) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)
	return func(c *gin.Context) {
		id, ok := ident(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		key := "rl:" + scope + ":" + windowSecs + ":" + id
		val, err := ctr.incr(c.Request.Context(), key, window)
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		remaining := int64(maxRequests) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}
