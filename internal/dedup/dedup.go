// Package dedup tracks which provisioning request keys have already been
// seen. Two requests sharing a key are the same provisioning task; only the
// first is kept.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Filter reports whether a request key is new, marking it seen atomically.
type Filter interface {
	IsNew(ctx context.Context, key string) (bool, error)
}

// MemoryFilter is the in-process filter for single-instance and batch runs.
// Safe for concurrent workers merging results into one list.
type MemoryFilter struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryFilter() *MemoryFilter {
	return &MemoryFilter{seen: make(map[string]struct{})}
}

func (f *MemoryFilter) IsNew(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[key]; ok {
		return false, nil
	}
	f.seen[key] = struct{}{}
	return true, nil
}

const (
	// DefaultTTL is how long a seen request key is remembered. Orders are
	// occasionally re-sent weeks later; 30 days covers the observed window.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces dedup keys in Redis.
	keyPrefix = "provisioning:seen:"
)

// RedisFilter shares the seen set across instances via a Redis SET with TTL.
type RedisFilter struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisFilter(rdb *redis.Client, ttl time.Duration) *RedisFilter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisFilter{rdb: rdb, ttl: ttl}
}

// IsNew returns true if the key has NOT been seen before. If true, the key
// is marked as seen atomically (SETNX).
func (f *RedisFilter) IsNew(ctx context.Context, key string) (bool, error) {
	set, err := f.rdb.SetNX(ctx, keyPrefix+key, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}
