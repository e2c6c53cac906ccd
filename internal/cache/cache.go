// Package cache abstracts the key/value store that parks short-lived state:
// one-time login codes and their sealed authentication results.
//
// Drivers:
//   - memory (in-process, for development and tests)
//   - redis (shared, for anything with more than one replica)
package cache

import (
	"context"
	"time"
)

// Client is the store contract. Values are opaque bytes so callers can park
// JSON or sealed ciphertext without the driver caring which.
type Client interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetDel returns the value and removes it in the same step. This is the
	// single-use claim for login codes: at most one caller ever sees a value.
	GetDel(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error

	// Stats returns counters for diagnostics endpoints.
	Stats(ctx context.Context) (Stats, error)
}

// Stats is a driver-neutral snapshot of cache health.
type Stats struct {
	Driver     string
	Keys       int64
	UsedMemory string
	Hits       int64
	Misses     int64
}

// Config selects and parameterizes a driver.
type Config struct {
	Driver   string // "memory" | "redis"
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string // prepended to every key as "<prefix>:<key>"

	// DefaultTTL applies when Set receives no explicit ttl semantics from
	// the caller's config. Drivers also use it as their sweep horizon.
	DefaultTTL time.Duration
}

// ErrNotFound is returned by Get/GetDel when the key is absent or expired.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound reports whether err is the cache miss error.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New builds a Client for cfg.Driver. Unknown or empty drivers fall back to
// memory so a bare config still boots.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg), nil
	default:
		return NewMemory(cfg), nil
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
