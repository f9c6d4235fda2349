// Package cache provides the render cache used by the preview server.
//
// Re-encoding a project into an upscaled PNG on every browser refresh
// is wasteful when the file has not changed, so rendered images are
// cached keyed by the project file's path, modification time and the
// render options. Any change to the file produces a new key; stale
// entries simply expire.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts as opaque bytes.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderOpts are the render parameters that participate in cache keys.
type RenderOpts struct {
	Scale      int
	Mode       string
	Background string
}

// RenderKey builds the cache key for a rendered project image. The
// file's modification time is part of the key, so editing the project
// invalidates prior renders without explicit purging.
func RenderKey(path string, modTime time.Time, opts RenderOpts) string {
	return hashKey("render", path, modTime.UnixNano(), opts.Scale, opts.Mode, opts.Background)
}
