package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by backends when a key has no stored value.
var ErrNotFound = errors.New("kvstore: key not found")

// Backend abstracts the durable key-value storage behind the shopper-state
// bridge. Implementations: Redis (shared deployments), sqlite file
// (single-node), in-memory (tests and degraded mode).
type Backend interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
