package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"
	"lu-estilo/internal/repository/repotest"
	"lu-estilo/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

type testAPI struct {
	t          *testing.T
	router     chi.Router
	store      *repotest.Store
	users      service.UserService
	adminToken string
	userToken  string
	userID     int64
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zap.NewNop()
	store := repotest.NewStore()
	users := service.NewUserService(store, testSecret, time.Hour)

	router := chi.NewRouter()
	authMiddleware := middleware.AuthMiddleware(users, logger)
	adminMiddleware := middleware.RequireAdmin(logger)

	NewAuthHandler(users, logger).RegisterRoutes(router, authMiddleware, nil)
	NewClientHandler(service.NewClientService(store), logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	NewProductHandler(service.NewProductService(store), logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	NewOrderHandler(service.NewOrderService(store), logger).RegisterRoutes(router, authMiddleware, adminMiddleware)

	api := &testAPI{t: t, router: router, store: store, users: users}
	api.adminToken, _ = api.createUser("admin", domain.RoleAdmin)
	api.userToken, api.userID = api.createUser("seller", domain.RoleUser)
	return api
}

func (a *testAPI) createUser(username string, role domain.Role) (string, int64) {
	a.t.Helper()
	ctx := context.Background()

	user, err := a.users.Register(ctx, service.RegisterInput{
		Username: username,
		Email:    username + "@luestilo.com",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(a.t, err)

	token, _, err := a.users.Login(ctx, username, "secret123")
	require.NoError(a.t, err)
	return token, user.ID
}

// do sends a JSON request. An empty token sends no Authorization header.
func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[middleware.ErrorResponse](t, w).Error.Message
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
