package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/medinasouk/storefront-backend/pkg/config"
)

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Souk-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Souk-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
