package transport

import (
	"net/http"
	"testing"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
)

func TestLoginWithSeededAccounts(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		email string
		role  domain.Role
	}{
		{"admin@cleanura.com", domain.RoleAdmin},
		{"user@cleanura.com", domain.RoleUser},
		{"guest@cleanura.com", domain.RoleGuest},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			w := env.do(t, "POST", "/api/auth/login", "", map[string]string{"email": tt.email})
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp LoginResponse
			decodeBody(t, w, &resp)
			if resp.AccessToken == "" {
				t.Error("expected an access token")
			}
			if resp.User.Role != tt.role {
				t.Errorf("role = %q, want %q", resp.User.Role, tt.role)
			}
			if resp.User.Email != tt.email {
				t.Errorf("email = %q, want %q", resp.User.Email, tt.email)
			}
		})
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "stranger@cleanura.com"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", w.Code)
	}

	w = env.do(t, "POST", "/api/auth/login", "", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", w.Code)
	}
}

func TestProfileReflectsSession(t *testing.T) {
	env := newTestEnv(t)

	// No token at all: the middleware stops the request.
	w := env.do(t, "GET", "/api/auth/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token := env.login(t, "user@cleanura.com")

	w = env.do(t, "GET", "/api/auth/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var profile UserProfile
	decodeBody(t, w, &profile)
	if profile.Email != "user@cleanura.com" {
		t.Errorf("profile email = %q", profile.Email)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin@cleanura.com")

	w := env.do(t, "POST", "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}

	// The token is still cryptographically valid, but the session user is
	// gone, so the profile probe reports no active session.
	w = env.do(t, "GET", "/api/auth/profile", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
