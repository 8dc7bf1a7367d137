// Package cache defines the response cache used by the read endpoints.
package cache

import "context"

// Cache stores rendered responses by key. Keys are namespaced by entity
// ("products:", "packing-lists:") so writes can drop a whole namespace.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	InvalidatePrefix(ctx context.Context, prefix string)
	Clear(ctx context.Context)
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}

// Noop is a Cache that stores nothing. It is used when caching is disabled.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte) {}

func (Noop) InvalidatePrefix(context.Context, string) {}

func (Noop) Clear(context.Context) {}

func (Noop) Stop() {}
