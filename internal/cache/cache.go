package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache wraps a redis client. A nil *Cache is valid and behaves as a
// cache miss on every call, so callers never need to branch on whether
// redis is configured.
type Cache struct {
	client *redis.Client
}

// New connects to redis at addr. Empty addr disables caching (returns nil).
func New(addr string) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		// Run without the cache rather than failing startup.
		return nil
	}
	return &Cache{client: client}
}

// GetJSON loads key into dest. Returns false on miss, nil cache, or any error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// SetJSON stores value under key with a TTL. Errors are swallowed: the
// cache is an optimization, never a source of truth.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, ttl)
}

// Invalidate removes keys, typically after a write that staled them.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
