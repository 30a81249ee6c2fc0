package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionState is the registry's verdict on a session token.
type SessionState int

const (
	// SessionMissing means the user has no registered session, e.g. after
	// expiry or a restart of the in-memory registry.
	SessionMissing SessionState = iota
	SessionCurrent
	// SessionSuperseded means a newer login replaced the token.
	SessionSuperseded
)

// SessionRegistry tracks the single live session token per user. Registering
// a new token invalidates whichever token the user held before.
type SessionRegistry interface {
	Register(ctx context.Context, userID string) (string, error)
	Check(ctx context.Context, userID, token string) (SessionState, error)
	Revoke(ctx context.Context, userID, token string) error
}

const registryKeyPrefix = "session:user"

type RedisSessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRegistry(client *redis.Client, ttl time.Duration) *RedisSessionRegistry {
	return &RedisSessionRegistry{client: client, ttl: ttl}
}

func registryKey(userID string) string {
	return fmt.Sprintf("%s:%s", registryKeyPrefix, userID)
}

func (r *RedisSessionRegistry) Register(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := r.client.Set(ctx, registryKey(userID), token, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to register session for user %s: %w", userID, err)
	}
	return token, nil
}

func (r *RedisSessionRegistry) Check(ctx context.Context, userID, token string) (SessionState, error) {
	current, err := r.client.Get(ctx, registryKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return SessionMissing, nil
	}
	if err != nil {
		return SessionMissing, fmt.Errorf("failed to read session for user %s: %w", userID, err)
	}
	if current != token {
		return SessionSuperseded, nil
	}
	// sliding expiry
	if err := r.client.Expire(ctx, registryKey(userID), r.ttl).Err(); err != nil {
		return SessionMissing, fmt.Errorf("failed to extend session for user %s: %w", userID, err)
	}
	return SessionCurrent, nil
}

var revokeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Revoke drops the user's entry only if it still holds token.
func (r *RedisSessionRegistry) Revoke(ctx context.Context, userID, token string) error {
	if err := revokeScript.Run(ctx, r.client, []string{registryKey(userID)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to revoke session for user %s: %w", userID, err)
	}
	return nil
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemorySessionRegistry keeps the registry in process. It is used when no
// Redis address is configured and therefore only suits a single instance.
type MemorySessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySessionRegistry(ttl time.Duration) *MemorySessionRegistry {
	return &MemorySessionRegistry{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemorySessionRegistry) Register(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	m.entries[userID] = memoryEntry{token: token, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return token, nil
}

func (m *MemorySessionRegistry) Check(ctx context.Context, userID, token string) (SessionState, error) {
	m.mu.RLock()
	entry, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok {
		return SessionMissing, nil
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[userID]; ok && cur.token == entry.token {
			delete(m.entries, userID)
		}
		m.mu.Unlock()
		return SessionMissing, nil
	}
	if entry.token != token {
		return SessionSuperseded, nil
	}

	m.mu.Lock()
	if cur, ok := m.entries[userID]; ok && cur.token == token {
		cur.expiresAt = m.now().Add(m.ttl)
		m.entries[userID] = cur
	}
	m.mu.Unlock()
	return SessionCurrent, nil
}

func (m *MemorySessionRegistry) Revoke(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries[userID]; ok && cur.token == token {
		delete(m.entries, userID)
	}
	return nil
}
