package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// Session resolves the shopper's session id from the session header, minting
// a fresh one when the client has none, and attaches the session's container
// bundle to the request context. The (possibly minted) id is echoed back on
// the response so the client can persist it.
func Session(headerName string, manager *shopper.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(headerName)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(headerName, sessionID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			containers, err := manager.Containers(ctx, sessionID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building session containers"))
				return
			}

			ctx = shopper.WithContainers(ctx, containers)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
