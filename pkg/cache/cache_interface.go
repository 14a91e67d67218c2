package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. The post service only needs
// get/set/invalidate; Ping exists for health checks.
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// found=false means cache miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
