// Package cache stores raw HTTP response bodies between crawl runs.
//
// Every backend implements [Cache] over opaque byte slices with a per-entry
// TTL:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for several crawler or server instances
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that different registries never collide:
//
//	k := cache.NewDefaultKeyer()
//	key := k.HTTPKey("dockerhub", "https://hub.docker.com/v2/...")
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the backend.
	Close() error
}
