package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	todohttp "github.com/todochat/todochat/internal/http"
	"github.com/todochat/todochat/internal/intent"
	"github.com/todochat/todochat/internal/model"
	"github.com/todochat/todochat/internal/service"
)

// mockTodoRepo for router tests
type mockTodoRepo struct{}

func (m *mockTodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return todo, nil
}
func (m *mockTodoRepo) GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	return model.Todo{}, fmt.Errorf("not found")
}
func (m *mockTodoRepo) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return todo, nil
}
func (m *mockTodoRepo) Delete(ctx context.Context, userID, todoID int64) error {
	return nil
}
func (m *mockTodoRepo) List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	return []model.Todo{}, nil
}
func (m *mockTodoRepo) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	return []model.Todo{}, nil
}
func (m *mockTodoRepo) Search(ctx context.Context, userID int64, query string) ([]model.Todo, error) {
	return []model.Todo{}, nil
}
func (m *mockTodoRepo) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}
func (m *mockTodoRepo) DeleteByCompleted(ctx context.Context, userID int64, completed bool) (int64, error) {
	return 0, nil
}
func (m *mockTodoRepo) SetCompletedAll(ctx context.Context, userID int64, completed bool) (int64, error) {
	return 0, nil
}

type mockUserRepo struct{}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	return model.User{ID: 1, Email: email}, nil
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, fmt.Errorf("not found")
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return model.User{}, fmt.Errorf("not found")
}

type mockRevokedRepo struct{}

func (m *mockRevokedRepo) Revoke(ctx context.Context, jti string) error { return nil }
func (m *mockRevokedRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, nil
}

type mockChatRepo struct{}

func (m *mockChatRepo) Append(ctx context.Context, userID int64, role, content string) (model.ChatMessage, error) {
	return model.ChatMessage{}, nil
}
func (m *mockChatRepo) ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	return []model.ChatMessage{}, nil
}
func (m *mockChatRepo) DeleteAll(ctx context.Context, userID int64) error { return nil }

type mockIssuer struct{}

func (m *mockIssuer) Issue(subject string) (string, error) { return "token", nil }
func (m *mockIssuer) Verify(token string) (string, string, error) {
	return "user@example.com", "jti-1", nil
}

type mockClassifier struct{}

func (mockClassifier) Classify(ctx context.Context, text string) []intent.Action {
	return []intent.Action{intent.Unknown{}}
}

func newTestTodoSvc() *service.TodoService {
	return service.NewTodoService(&mockTodoRepo{})
}

func newTestAuthSvc() *service.AuthService {
	return service.NewAuthService(&mockUserRepo{}, &mockRevokedRepo{}, &mockIssuer{})
}

func newTestChatSvc() *service.ChatService {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return service.NewChatService(&mockTodoRepo{}, &mockChatRepo{}, mockClassifier{}, logger)
}

func newTestRouter() http.Handler {
	return todohttp.NewRouter(newTestTodoSvc(), newTestAuthSvc(), newTestChatSvc())
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_TodoEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Router itself doesn't enforce auth — that's the middleware's job
	// Just verify the route is registered (200, not 404)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRouter_AuthEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	// Auth signup with empty body → should get a JSON error (not 404)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// We expect a non-404 response (route is registered)
	if w.Code == http.StatusNotFound {
		t.Errorf("expected auth route to be registered, got 404")
	}
}

func TestRouter_ChatEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
