package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Allows swapping the implementation (Redis, in-memory) without touching callers.
type Cache interface {
	// Get fetches data from cache and unmarshals it into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores data in cache with a TTL. ttl = 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from cache.
	Delete(ctx context.Context, keys ...string) error

	// GetString fetches a plain string slot. Missing key returns ("", false, nil).
	GetString(ctx context.Context, key string) (string, bool, error)

	// SetString stores a plain string slot with no expiry.
	SetString(ctx context.Context, key, value string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
