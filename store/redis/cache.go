// Package redis provides an optional Redis cache in front of the summary
// store. The cache holds each owner's summary payload under a TTL and is
// invalidated on every write, so the database stays authoritative. A nil
// *Cache is safe to call and does nothing, which is how deployments without
// Redis run.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recognition:summary:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. TTL bounds how stale a cached summary can
// get ahead of the daily refresh.
func New(addr string, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached payload for an owner, or ok=false on miss, error
// or nil cache.
func (c *Cache) Get(ctx context.Context, ownerID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, keyPrefix+ownerID).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores an owner's payload. Cache write failures are not fatal; the
// caller already persisted to the database.
func (c *Cache) Set(ctx context.Context, ownerID string, payload []byte) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, keyPrefix+ownerID, payload, c.ttl).Err()
}

// Invalidate drops an owner's cached payload.
func (c *Cache) Invalidate(ctx context.Context, ownerID string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, keyPrefix+ownerID).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
