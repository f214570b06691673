package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "bookly:revoked:"

// Blocklist records revoked token identifiers. Entries carry a bounded TTL at
// least as long as the maximum token lifetime, so the store cannot grow
// unboundedly and an entry never outlives the token it revokes by less than
// the token's own validity. Revoke is idempotent.
type Blocklist interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisBlocklist is the production Blocklist: a shared keyed store with
// per-entry expiry, visible to every process instance handling requests.
type RedisBlocklist struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBlocklist wraps client with entries expiring after ttl. ttl should
// equal the refresh token TTL, the longest-lived token a deployment issues.
func NewRedisBlocklist(client *redis.Client, ttl time.Duration) *RedisBlocklist {
	return &RedisBlocklist{client: client, ttl: ttl}
}

func (b *RedisBlocklist) Revoke(ctx context.Context, jti string) error {
	return b.client.Set(ctx, revokedKeyPrefix+jti, "", b.ttl).Err()
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryBlocklist is a process-local Blocklist for tests and single-instance
// development. Stale entries are swept lazily on insert.
type MemoryBlocklist struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryBlocklist(ttl time.Duration) *MemoryBlocklist {
	return &MemoryBlocklist{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

func (b *MemoryBlocklist) Revoke(_ context.Context, jti string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for key, expires := range b.entries {
		if now.After(expires) {
			delete(b.entries, key)
		}
	}

	b.entries[jti] = now.Add(b.ttl)
	return nil
}

func (b *MemoryBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expires, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expires), nil
}
