package core

import (
	"context"
	"time"
)

// CacheRepository is the port for short-lived cached payloads, backed by
// Redis in production. Entries carry a TTL; a TTL of zero never expires.
type CacheRepository interface {
	// Set stores a value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value for key, or nil when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key and reports whether it was present.
	Delete(ctx context.Context, key string) (bool, error)

	// Health verifies the cache backend is reachable.
	Health(ctx context.Context) error
}
