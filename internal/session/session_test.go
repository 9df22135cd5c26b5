package session

import (
	"context"
	"testing"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const testSecret = "test-secret"

func newTestManager(t *testing.T, slot Slot) (*Manager, *memory.Store) {
	t.Helper()
	st := memory.NewSeeded()
	return NewManager(st, slot, testSecret, time.Hour), st
}

func TestLoginWithSeededAccount(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemorySlot())

	// Seeded demo accounts have no password hash; the email alone logs in.
	token, user, err := m.Login(ctx, "admin@cleanura.com", "anything")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected an access token")
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}

	current := m.Current()
	if current == nil || current.ID != user.ID {
		t.Error("Current should return the logged-in user")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemorySlot())

	_, _, err := m.Login(ctx, "nobody@cleanura.com", "pw")
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if m.Current() != nil {
		t.Error("failed login must not set a session")
	}
}

func TestLoginVerifiesPasswordWhenHashed(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	m, st := newTestManager(t, slot)

	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if _, err := st.AddUser(ctx, domain.User{
		Name:         "Staff",
		Email:        "staff@cleanura.com",
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	if _, _, err := m.Login(ctx, "staff@cleanura.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password should fail with ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.Login(ctx, "staff@cleanura.com", "s3cret-pw"); err != nil {
		t.Fatalf("correct password should log in: %v", err)
	}
}

func TestLogoutClearsSessionAndSlot(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	m, _ := newTestManager(t, slot)

	if _, _, err := m.Login(ctx, "user@cleanura.com", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if m.Current() != nil {
		t.Error("Current should be nil after logout")
	}
	persisted, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if persisted != nil {
		t.Error("slot should be empty after logout")
	}
}

func TestRehydrateRoundTripMemorySlot(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	first, _ := newTestManager(t, slot)

	_, user, err := first.Login(ctx, "admin@cleanura.com", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A fresh manager over the same slot stands in for a restart.
	second, _ := newTestManager(t, slot)
	restored, err := second.Rehydrate(ctx)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if restored == nil || restored.ID != user.ID {
		t.Fatalf("restored = %+v, want user %s", restored, user.ID)
	}
	if current := second.Current(); current == nil || current.ID != user.ID {
		t.Error("Current should reflect the rehydrated user")
	}
}

func TestRehydrateRoundTripRedisSlot(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	slot := NewRedisSlot(client, "salesight:session:test")
	first, _ := newTestManager(t, slot)

	_, user, err := first.Login(ctx, "user@cleanura.com", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, _ := newTestManager(t, slot)
	restored, err := second.Rehydrate(ctx)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if restored == nil || restored.ID != user.ID || restored.Role != user.Role {
		t.Fatalf("restored = %+v, want %s/%s", restored, user.ID, user.Role)
	}
}

func TestRehydrateEmptySlot(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemorySlot())

	restored, err := m.Rehydrate(ctx)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if restored != nil {
		t.Errorf("expected nil from an empty slot, got %+v", restored)
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		required domain.Role
		current  domain.Role
		want     bool
	}{
		{domain.RoleGuest, domain.RoleGuest, true},
		{domain.RoleGuest, domain.RoleUser, true},
		{domain.RoleGuest, domain.RoleAdmin, true},
		{domain.RoleUser, domain.RoleGuest, false},
		{domain.RoleUser, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleGuest, false},
		{domain.RoleAdmin, domain.RoleUser, false},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleGuest, domain.Role(""), false},
		{domain.RoleGuest, domain.Role("superadmin"), false},
	}

	for _, tt := range tests {
		if got := CanAccess(tt.required, tt.current); got != tt.want {
			t.Errorf("CanAccess(%q, %q) = %v, want %v", tt.required, tt.current, got, tt.want)
		}
	}
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemorySlot())

	token, user, err := m.Login(ctx, "admin@cleanura.com", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("claims role = %q, want admin", claims.Role)
	}

	if _, err := m.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage tokens must fail validation")
	}

	other := NewManager(memory.NewSeeded(), NewMemorySlot(), "other-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("tokens signed with a different secret must fail")
	}
}

func TestExpiredTokenFailsValidation(t *testing.T) {
	st := memory.NewSeeded()
	m := NewManager(st, NewMemorySlot(), testSecret, -time.Minute)

	token, _, err := m.Login(context.Background(), "admin@cleanura.com", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expired token must fail validation")
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemorySlot())

	if _, _, err := m.Login(ctx, "admin@cleanura.com", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	first := m.Current()
	first.Name = "mutated"
	first.ID = uuid.New()

	second := m.Current()
	if second.Name == "mutated" {
		t.Error("Current must return a copy, not the internal pointer")
	}
}
