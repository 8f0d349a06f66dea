// Package cache provides pluggable byte caches for computed closures.
//
// Closures are deterministic functions of the matrix content, so entries
// are keyed by the SHA-256 hash of the raw input. The CLI uses a file cache
// under the XDG cache directory; server deployments can use Redis; tests
// and --no-cache runs use the null cache.
package cache

import (
	"context"
	"time"
)

// TTLClosure is how long cached closures are kept. Entries are
// content-addressed, so the TTL only bounds disk growth.
const TTLClosure = 30 * 24 * time.Hour

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. Keys embed a version tag so a change to the
// serialized form invalidates old entries instead of misreading them.
type Keyer interface {
	// ClosureKey returns the key for a closure computed from the matrix
	// whose raw content hashes to matrixHash.
	ClosureKey(matrixHash string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ClosureKey implements Keyer.
func (DefaultKeyer) ClosureKey(matrixHash string) string {
	return "closure:v1:" + matrixHash
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// when several tools share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ClosureKey implements Keyer.
func (k *ScopedKeyer) ClosureKey(matrixHash string) string {
	return k.prefix + k.inner.ClosureKey(matrixHash)
}
