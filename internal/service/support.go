package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guttosm/packing-list-service/internal/logger"
	"github.com/guttosm/packing-list-service/internal/service/cache"
)

// Cache key namespaces. Every write drops its whole namespace.
const (
	ProductsCachePrefix     = "products:"
	HSCodesCachePrefix      = "hs-codes:"
	PackingListsCachePrefix = "packing-lists:"
)

// Clock returns the current time. Stored timestamps are UTC with millisecond
// precision so every backend round-trips them exactly.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func orNoop(c cache.Cache) cache.Cache {
	if c == nil {
		return cache.Noop{}
	}
	return c
}

// cached returns the decoded value under key, or loads it and stores it.
func cached[T any](ctx context.Context, c cache.Cache, key string, load func() (T, error)) (T, error) {
	if b, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		c.Set(ctx, key, b)
	} else {
		log := logger.Logger()
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
	}
	return v, nil
}
