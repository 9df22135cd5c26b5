// Package session tracks the current authenticated user. The manager moves
// between two states, anonymous and authenticated, persists the identity
// to a slot on login and restores it at startup.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials deliberately does not distinguish an unknown
	// email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserSource is the slice of the entity store the manager needs.
type UserSource interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager owns the session state machine.
type Manager struct {
	users     UserSource
	slot      Slot
	jwtSecret string
	accessTTL time.Duration

	mu      sync.RWMutex
	current *domain.User
}

func NewManager(users UserSource, slot Slot, jwtSecret string, accessTTL time.Duration) *Manager {
	return &Manager{
		users:     users,
		slot:      slot,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
	}
}

// Login authenticates by email lookup. When the record carries a bcrypt
// hash the password is verified against it; seeded demo accounts carry no
// hash and pass on the lookup alone. On success the identity is persisted
// to the slot and an access token issued.
func (m *Manager) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := m.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return "", nil, ErrInvalidCredentials
		}
	}

	if err := m.slot.Save(ctx, *user); err != nil {
		return "", nil, err
	}

	token, err := m.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	return token, user, nil
}

// Logout clears the persisted identity and returns to anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.slot.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

// Rehydrate restores the authenticated state from the slot. Called once at
// process start, before the server begins accepting requests. Returns nil
// when no identity was persisted.
func (m *Manager) Rehydrate(ctx context.Context) (*domain.User, error) {
	user, err := m.slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = user
	m.mu.Unlock()
	return user, nil
}

// Current returns the authenticated user, or nil when anonymous.
func (m *Manager) Current() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	cp := *m.current
	return &cp
}

// CanAccess applies the role hierarchy: the accessor's role must be at
// least the route's minimum role. Anonymous (empty role) accesses nothing.
func CanAccess(required, current domain.Role) bool {
	return current.AtLeast(required)
}

// ValidateToken parses and verifies an access token.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.jwtSecret))
}

// HashPassword hashes a password for accounts created through the admin
// endpoints. Seed data never calls this.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
