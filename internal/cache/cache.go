package cache

import (
	"context"
	"time"
)

// Cache is the resolve-cache abstraction. The service treats it as best
// effort: a failing or absent cache degrades to store lookups, never to
// request failures.
type Cache interface {
	// Set stores a key-value pair with expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key. A missing key returns "", nil.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection.
	Close() error
}
