// Package cache provides lightweight persistent caching for scan results.
//
// The CLI uses a file-based cache to skip re-reading source files whose size
// and modification time have not changed between runs, which keeps watch and
// serve loops cheap on large trees. A null implementation disables caching
// without changing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiration.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
