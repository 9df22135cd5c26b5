package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Slot is the single persisted key holding the serialized current user.
// It is written on login, cleared on logout and read once at process start
// to rehydrate the session.
type Slot interface {
	Save(ctx context.Context, user domain.User) error
	// Load returns (nil, nil) when no identity is persisted.
	Load(ctx context.Context) (*domain.User, error)
	Clear(ctx context.Context) error
}

// RedisSlot persists the identity in Redis so it survives restarts.
type RedisSlot struct {
	client *redis.Client
	key    string
}

func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

func (s *RedisSlot) Save(ctx context.Context, user domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize session user: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisSlot) Load(ctx context.Context) (*domain.User, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	return &user, nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// MemorySlot keeps the identity in process memory. Used in tests and when
// no Redis address is configured; the session then lasts as long as the
// process, which matches the all-in-memory deployment mode.
type MemorySlot struct {
	mu   sync.Mutex
	user *domain.User
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Save(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := user
	s.user = &cp
	return nil
}

func (s *MemorySlot) Load(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	cp := *s.user
	return &cp, nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}
