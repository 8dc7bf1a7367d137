package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/packing-list-service/internal/logger"
	"github.com/guttosm/packing-list-service/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisCache keeps responses in Redis so several instances share one cache.
// Every key is stored under namespace.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisCache connects to redisURL and checks the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration, namespace string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl, namespace: namespace}, nil
}

func (c *RedisCache) key(k string) string {
	return c.namespace + k
}

// Get returns the cached value. Redis errors count as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheOperation(metrics.CacheRedis, "get", "miss")
		return nil, false
	case err != nil:
		log := logger.Logger()
		log.Warn().Err(err).Str("key", key).Msg("Redis cache get failed")
		metrics.RecordCacheOperation(metrics.CacheRedis, "get", "error")
		return nil, false
	}
	metrics.RecordCacheOperation(metrics.CacheRedis, "get", "hit")
	return b, true
}

// Set stores value with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		log := logger.Logger()
		log.Warn().Err(err).Str("key", key).Msg("Redis cache set failed")
		metrics.RecordCacheOperation(metrics.CacheRedis, "set", "error")
		return
	}
	metrics.RecordCacheOperation(metrics.CacheRedis, "set", "success")
}

// InvalidatePrefix deletes every key starting with prefix.
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := c.deleteMatching(ctx, escapePattern(c.key(prefix))+"*"); err != nil {
		log := logger.Logger()
		log.Warn().Err(err).Str("prefix", prefix).Msg("Redis cache invalidation failed")
		metrics.RecordCacheOperation(metrics.CacheRedis, "invalidate", "error")
		return
	}
	metrics.RecordCacheOperation(metrics.CacheRedis, "invalidate", "success")
}

// Clear deletes every key in the namespace.
func (c *RedisCache) Clear(ctx context.Context) {
	if err := c.deleteMatching(ctx, escapePattern(c.namespace)+"*"); err != nil {
		log := logger.Logger()
		log.Warn().Err(err).Msg("Redis cache clear failed")
		return
	}
	metrics.RecordCacheOperation(metrics.CacheRedis, "clear", "success")
}

// Stop closes the client.
func (c *RedisCache) Stop() {
	_ = c.client.Close()
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

// escapePattern quotes the glob characters understood by SCAN MATCH.
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
