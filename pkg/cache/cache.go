// Package cache memoises expensive pipeline work, chiefly frame solver runs.
//
// A cache is an optimisation only: every consumer must produce identical
// results with [NullCache]. Keys come from a [Keyer] so that CLI, API and
// tests agree on the key layout, and values are opaque bytes (JSON in
// practice).
//
// Three backends are provided:
//
//   - [NullCache] stores nothing
//   - [FileCache] keeps entries under a directory, for the CLI
//   - [RedisCache] shares entries between API replicas
package cache

import (
	"context"
	"time"
)

// TTLSolve is how long a solver result stays cached. Results are pure
// functions of their key, so the limit only bounds disk and memory use.
const TTLSolve = 7 * 24 * time.Hour

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held connections.
	Close() error
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
