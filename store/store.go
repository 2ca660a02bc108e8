// Package store defines the key-value storage abstraction shared by every
// subsystem. Keys are flat strings namespaced by purpose ("session:",
// "user:", "ratelimit:", ...); values are opaque byte slices with an
// optional time-to-live.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or its TTL has elapsed.
// Callers must distinguish this from infrastructure errors: a store that is
// unreachable returns a different error, never ErrNotFound.
var ErrNotFound = errors.New("key not found")

// Store is the interface implemented by all key-value backends.
type Store interface {
	// Put writes value under key. A ttl of zero means the entry never
	// expires. Overwrites silently.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value for key, or ErrNotFound when the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all live keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
