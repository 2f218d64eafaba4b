package state

import (
	"context"
	"time"

	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// KVStore is a durable string-keyed blob store.
type KVStore interface {
	// Get returns the value stored under key, or None when nothing is stored.
	Get(ctx context.Context, key string) (foundation.Option[[]byte], error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}

// Timestamped is implemented by stores that know when a key was last written.
type Timestamped interface {
	// UpdatedAt returns the time of the last Set of key, or None when key is absent.
	UpdatedAt(ctx context.Context, key string) (foundation.Option[time.Time], error)
}
