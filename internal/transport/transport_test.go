package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/session"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store/memory"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testJWTSecret = "transport-test-secret"

// testEnv wires all handlers over a seeded in-memory store, the way the
// server package does, minus the outer middleware stack.
type testEnv struct {
	router   chi.Router
	store    *memory.Store
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	st := memory.NewSeeded()
	sessions := session.NewManager(st, session.NewMemorySlot(), testJWTSecret, time.Hour)

	auth := middleware.AuthMiddleware(testJWTSecret, log)
	requireGuest := middleware.RequireRole(domain.RoleGuest, log)
	requireUser := middleware.RequireRole(domain.RoleUser, log)
	requireAdmin := middleware.RequireAdmin(log)

	r := chi.NewRouter()
	NewAuthHandler(sessions, log).RegisterRoutes(r, auth, nil)
	NewProductHandler(st, log).RegisterRoutes(r, auth, requireUser)
	NewCustomerHandler(st, log).RegisterRoutes(r, auth, requireUser)
	NewSaleHandler(st, log).RegisterRoutes(r, auth, requireUser)
	NewExpenseHandler(st, log).RegisterRoutes(r, auth, requireUser)
	NewUserHandler(st, log).RegisterRoutes(r, auth, requireAdmin)
	NewReportHandler(st, log).RegisterRoutes(r, auth, requireGuest, requireAdmin)

	return &testEnv{router: r, store: st, sessions: sessions}
}

// login returns an access token for one of the seeded demo accounts.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, "POST", "/api/auth/login", "", map[string]string{"email": email})
	if w.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", email, w.Code, w.Body.String())
	}

	var resp LoginResponse
	decodeBody(t, w, &resp)
	return resp.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
