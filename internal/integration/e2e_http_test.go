package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"routine_tracker/internal/config"
	httpserver "routine_tracker/internal/http"
	"routine_tracker/internal/http/handlers"
	"routine_tracker/internal/repository"
	"routine_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestE2E_RegisterAddToggleStats(t *testing.T) {
	pool := connect(t)
	gin.SetMode(gin.TestMode)

	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	tasks := service.NewTaskService(repository.NewTaskRepository(pool), audit, service.TaskServiceConfig{})
	auth := service.NewAuthService(
		repository.NewUserRepository(pool),
		service.NewPasswordHasher(bcrypt.MinCost),
		service.NewTokenManager("test-secret", time.Hour),
		service.NewSessionStore(nil),
		audit,
	)
	cfg := &config.Config{
		APIRateLimit: 1000, APIRateWindow: time.Minute,
		AuthRateLimit: 1000, AuthRateWindow: time.Minute,
		WriteRateLimit: 1000, WriteRateWindow: time.Minute,
	}

	r := gin.New()
	httpserver.RegisterRoutes(r, handlers.NewHandler(tasks, auth, audit, false),
		handlers.NewHealthHandler("test", map[string]handlers.Pinger{"database": pool}), cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	post := func(path, token, body string) (int, map[string]any) {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return send(t, req)
	}
	get := func(path, token string) (int, map[string]any) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return send(t, req)
	}

	username := "e2e_" + uuid.NewString()[:8]
	code, body := post("/register/", "", `{"username":"`+username+`","email":"e2e@example.com","password":"s3cret-pass","password_confirm":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, code, body)
	token := body["token"].(string)
	uid := int64(body["user"].(map[string]any)["id"].(float64))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, uid)
		_, _ = pool.Exec(context.Background(), `DELETE FROM audit_logs WHERE user_id = $1`, uid)
	})

	code, body = post("/add/", token, `{"title":"Stretch"}`)
	require.Equal(t, http.StatusCreated, code, body)
	id := body["task"].(map[string]any)["id"].(float64)

	code, _ = post("/add/", token, `{"title":"Stretch"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = post("/toggle/"+jsonInt(id)+"/", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, `Task "Stretch" completed!`, body["message"])

	code, body = get("/stats/", token)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total_tasks"])
	assert.EqualValues(t, 100, body["percentage_completed"])

	code, body = get("/readyz", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["checks"].(map[string]any)["database"])
}

func send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(res.Body).Decode(&body)
	return res.StatusCode, body
}

func jsonInt(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}
