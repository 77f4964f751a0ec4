package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"routine_tracker/internal/http/middleware"
	"routine_tracker/internal/repository"
	"routine_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler() (*Handler, *service.AuthService) {
	audit := service.NewAuditService(repository.NewMemoryAuditRepository())
	tasks := service.NewTaskService(repository.NewMemoryTaskRepository(nil), audit, service.TaskServiceConfig{})
	auth := service.NewAuthService(
		repository.NewMemoryUserRepository(),
		service.NewPasswordHasher(bcrypt.MinCost),
		service.NewTokenManager("test-secret", time.Hour),
		service.NewSessionStore(nil),
		audit,
	)
	return NewHandler(tasks, auth, audit, false), auth
}

func TestHandlersWithoutSessionAreUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler()

	r := gin.New()
	r.GET("/", h.Board)
	r.GET("/stats/", h.Stats)
	r.GET("/profile/", h.Profile)

	for _, path := range []string{"/", "/stats/", "/profile/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHandlersReadUserFromSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, auth := newTestHandler()

	_, session, err := auth.Register(context.Background(), service.RegisterInput{
		Username:        "frank",
		Email:           "frank@example.com",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}, service.RequestInfo{})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", middleware.Session(auth), h.Board)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
