package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks operation keys that have already been handled.
// The import endpoint uses it so a retried destructive restore is not
// replayed.
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL. Returns true if the key was
	// newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been recorded and not expired
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
