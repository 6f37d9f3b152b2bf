package kvstore

import (
	"context"
	"errors"

	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// Bridge is the storage surface handed to the state containers. Backend
// failures never escape it: reads fall back to a miss, writes and removes
// are logged and dropped. Callers therefore need no defensive handling at
// mutation sites.
type Bridge struct {
	backend Backend
	logg    *logger.Logger
}

// NewBridge wraps a backend. A nil backend yields a bridge where every read
// misses and every write is a no-op, mirroring an environment with no
// storage at all.
func NewBridge(backend Backend, logg *logger.Logger) *Bridge {
	return &Bridge{backend: backend, logg: logg}
}

// Read returns the stored value and whether it was present. Misses and
// backend failures are indistinguishable to the caller.
func (b *Bridge) Read(ctx context.Context, key string) (string, bool) {
	if b == nil || b.backend == nil {
		return "", false
	}
	value, err := b.backend.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.logError(ctx, key, "state read failed", err)
		}
		return "", false
	}
	return value, true
}

// Write mirrors a value to durable storage.
func (b *Bridge) Write(ctx context.Context, key, value string) {
	if b == nil || b.backend == nil {
		return
	}
	if err := b.backend.Write(ctx, key, value); err != nil {
		b.logError(ctx, key, "state write failed", err)
	}
}

// Remove drops a key from durable storage.
func (b *Bridge) Remove(ctx context.Context, key string) {
	if b == nil || b.backend == nil {
		return
	}
	if err := b.backend.Remove(ctx, key); err != nil {
		b.logError(ctx, key, "state remove failed", err)
	}
}

func (b *Bridge) logError(ctx context.Context, key, msg string, err error) {
	if b.logg == nil {
		return
	}
	ctx = b.logg.WithField(ctx, "state_key", key)
	b.logg.Error(ctx, msg, err)
}
