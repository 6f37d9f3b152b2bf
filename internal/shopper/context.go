package shopper

import (
	"context"

	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
)

type ctxKey struct{}

// WithContainers attaches a session's container bundle to the context.
func WithContainers(ctx context.Context, c *Containers) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the container bundle attached by the session
// middleware. Calling it outside that scope is a programming error and
// returns a typed internal error naming the missing provider.
func FromContext(ctx context.Context) (*Containers, error) {
	if ctx == nil {
		return nil, outsideProviderError()
	}
	if c, ok := ctx.Value(ctxKey{}).(*Containers); ok && c != nil {
		return c, nil
	}
	return nil, outsideProviderError()
}

func outsideProviderError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInternal,
		"shopper containers used outside a session scope; mount the session middleware first")
}
