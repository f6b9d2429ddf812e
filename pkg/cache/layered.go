package cache

import (
	"context"
	"encoding/json"
	"time"
)

// LayeredCache implements two-level cache (L1: memory, L2: any Store).
type LayeredCache struct {
	memCache *MemoryCache
	backend  Store
}

// remainingTTLStore is implemented by backends that can report how long an
// entry has left to live. The layered cache uses it to keep L1 entries from
// outliving the backend's expiry.
type remainingTTLStore interface {
	GetWithTTL(ctx context.Context, key string, dest interface{}) (time.Duration, error)
}

// l1MaxTTL bounds how long a read-through entry stays in memory.
const l1MaxTTL = time.Hour

// NewLayeredCache creates a layered cache in front of backend.
func NewLayeredCache(backend Store, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	memOpts := []MemoryOption{WithMemoryMaxSize(cfg.MemoryMaxSize)}
	if cfg.Clock != nil {
		memOpts = append(memOpts, WithMemoryClock(cfg.Clock))
	}

	return &LayeredCache{
		memCache: NewMemoryCache(memOpts...),
		backend:  backend,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	// Write-through: backend first, then memory
	if err := lc.backend.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, ttl)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	// Populate L1 for next time, never past the backend entry's expiry.
	var raw json.RawMessage
	l1TTL := l1MaxTTL
	if ts, ok := lc.backend.(remainingTTLStore); ok {
		remaining, err := ts.GetWithTTL(ctx, key, &raw)
		if err != nil {
			return err
		}
		if remaining > 0 && remaining < l1TTL {
			l1TTL = remaining
		}
	} else if err := lc.backend.Get(ctx, key, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}

	_ = lc.memCache.Set(ctx, key, raw, l1TTL)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.backend.Delete(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.backend.Close()
}
