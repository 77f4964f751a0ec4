package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"routine_tracker/internal/logger"
	"routine_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	tokens map[string]int64
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*service.SessionClaims, error) {
	uid, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &service.SessionClaims{UserID: uid}, nil
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", Session(stubAuth{tokens: map[string]int64{"good": 7}}), func(c *gin.Context) {
		uid, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	return r
}

func TestSessionBearer(t *testing.T) {
	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestSessionCookie(t *testing.T) {
	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionRejects(t *testing.T) {
	r := newAuthRouter()
	cases := map[string]func(*http.Request){
		"missing":    func(*http.Request) {},
		"bad token":  func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") },
		"not bearer": func(req *http.Request) { req.Header.Set("Authorization", "Basic Zm9vOmJhcg==") },
	}
	for name, prep := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			prep(req)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMemoryCounterWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctr := newMemoryCounter(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := ctr.incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	n, _ := ctr.incr(ctx, "other", time.Minute)
	assert.Equal(t, int64(1), n)

	now = now.Add(time.Minute)
	n, _ = ctr.incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCounterDropsExpiredWindows(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctr := newMemoryCounter(func() time.Time { return now })
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, err := ctr.incr(ctx, key, time.Minute)
		require.NoError(t, err)
	}
	assert.Len(t, ctr.clients, 3)

	now = now.Add(2 * time.Minute)
	_, err := ctr.incr(ctx, "d", time.Minute)
	require.NoError(t, err)
	assert.Len(t, ctr.clients, 1)
	assert.Contains(t, ctr.clients, "d")
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", limit(newMemoryCounter(nil), "test", 2, time.Minute, func(c *gin.Context) (string, bool) {
		return c.ClientIP(), true
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestUserRateLimitIsPerUser(t *testing.T) {
	auth := stubAuth{tokens: map[string]int64{"a": 1, "b": 2}}
	r := gin.New()
	r.POST("/w", Session(auth), UserRateLimit("write", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/w", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"))
}
