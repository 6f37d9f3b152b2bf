package controllers

import (
	"context"
	"net/http"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/pkg/config"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// Pinger is the health-check surface a storage backend exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Souk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the configured storage backend
// answers a ping. Memory-backed deployments pass a nil pinger.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Souk-Env", cfg.App.Env)

		if storage != nil {
			if err := storage.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage backend unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{
			"status":  "ready",
			"storage": cfg.Storage.NormalizedDriver(),
		})
	}
}
