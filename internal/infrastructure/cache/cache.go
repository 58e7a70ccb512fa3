package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a fail-soft JSON cache on top of Redis. Every operation treats
// a Redis failure as a cache miss or a no-op: the error is logged and
// swallowed so the request falls through to the database. Callers must
// never depend on a write having happened.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache creates a cache over an existing Redis client
func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Get unmarshals the cached value for key into dest. Returns false on a
// miss, a malformed entry, or any Redis failure.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt entries are dropped so the next write repairs the key
		c.logger.Warn("cache entry unmarshal failed", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// Set marshals value as JSON and stores it under key with the given TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a single key
func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// DeleteByPrefix removes every key starting with prefix. Uses SCAN rather
// than KEYS so invalidation does not block Redis on large keyspaces.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) {
	var cursor uint64
	pattern := prefix + "*"

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
			return
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache prefix delete failed", zap.String("prefix", prefix), zap.Error(err))
				return
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Exists reports whether key is present. Returns false on Redis failure.
func (c *Cache) Exists(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}
