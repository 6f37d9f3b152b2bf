package middleware

import (
	"fmt"
	"net/http"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	"github.com/medinasouk/storefront-backend/pkg/config"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/redis"
)

// RateLimit applies a per-session fixed window limit to mutating requests.
// Reads pass through untouched. A nil redis client disables the limiter,
// which is the case for the sqlite and memory storage drivers.
func RateLimit(cfg config.RateLimitConfig, redisClient *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if redisClient == nil || !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scope := "mutation"
			if containers, err := shopper.FromContext(ctx); err == nil {
				scope = fmt.Sprintf("mutation:%s", containers.SessionID)
			}

			allowed, count, err := redisClient.FixedWindowAllow(ctx, scope, int64(cfg.MutationLimit), cfg.MutationWindow)
			if err != nil {
				// The limiter failing open beats blocking every shopper.
				if logg != nil {
					ctx = logg.WithField(ctx, "error", err.Error())
					logg.Warn(ctx, "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"count": count, "limit": cfg.MutationLimit})
					logg.Warn(ctx, "mutation rate limit exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
