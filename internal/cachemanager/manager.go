// Package cachemanager provides a small generic caching layer. The view
// engine uses it to reuse a template's copy plan across the many instances
// refreshed in one cascade instead of re-reading the template per instance.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
