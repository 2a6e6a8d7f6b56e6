// Package cache provides the artifact cache used to skip recompiling
// unchanged trees. Compiled PDF and PNG outputs are stored keyed by a
// hash of the input text and the rendering options; TikZ generation
// itself is cheap and never cached.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long compiled artifacts stay valid.
const DefaultTTL = 30 * 24 * time.Hour

// Cache stores compiled artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live. A zero ttl means
	// the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the key for a compiled artifact from the output
// format, the input text and the rendering options that influence the
// result.
func ArtifactKey(format string, input []byte, opts ...any) string {
	return hashKey("artifact:"+format, Hash(input), opts)
}
