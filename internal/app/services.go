// Package app provides service initialization.
package app

import (
	"context"

	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service"
	"github.com/guttosm/packing-list-service/internal/service/cache"
	"github.com/rs/zerolog/log"
)

// redisNamespace prefixes every key this service writes to Redis.
const redisNamespace = "packing-list-service"

// ServiceComponents holds the business services and the cache they share.
type ServiceComponents struct {
	Products     service.ProductService
	HSCodes      service.HSCodeService
	PackingLists service.PackingListService
	Cache        cache.Cache
	// Redis is set when the cache is Redis backed, for the readiness probe.
	Redis *cache.RedisCache
}

// InitializeCache picks Redis when REDIS_URL is set, the in-memory LRU when
// caching is enabled, and a no-op cache otherwise. A Redis connection
// failure falls back to memory.
func InitializeCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, *cache.RedisCache) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.TTL, redisNamespace)
		if err == nil {
			log.Info().Msg("Using Redis cache")
			return rc, rc
		}
		log.Error().Err(err).Msg("Failed to connect to Redis - falling back to in-memory cache")
	}

	if cfg.Enabled && cfg.Size > 0 {
		return service.NewMemoryCache(cfg.Size, cfg.TTL), nil
	}
	return cache.Noop{}, nil
}

// InitializeServices builds the business services over store.
func InitializeServices(ctx context.Context, store *repository.Store, cfg config.CacheConfig) *ServiceComponents {
	c, rc := InitializeCache(ctx, cfg)

	return &ServiceComponents{
		Products:     service.NewProductService(store.Products, c),
		HSCodes:      service.NewHSCodeService(store.HSCodes, c),
		PackingLists: service.NewPackingListService(store.PackingLists, store.Products, c),
		Cache:        c,
		Redis:        rc,
	}
}
