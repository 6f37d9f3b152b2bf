package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medinasouk/storefront-backend/api/controllers"
	"github.com/medinasouk/storefront-backend/api/middleware"
	"github.com/medinasouk/storefront-backend/internal/proxy"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	"github.com/medinasouk/storefront-backend/pkg/config"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/redis"
)

const backendMount = "/api/v1/backend"

// NewRouter wires the storefront HTTP surface: health, metrics, the
// session-scoped state endpoints and the backend pass-through proxy.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	manager *shopper.Manager,
	storage controllers.Pinger,
	redisClient *redis.Client,
	forwarder *proxy.Forwarder,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	if forwarder != nil {
		r.Handle(backendMount+"/*", forwarder.Handler(backendMount))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session.HeaderName, manager, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.Delete("/", controllers.CartClear(logg))
			r.Post("/items", controllers.CartAddItem(logg))
			r.Put("/items/{productId}", controllers.CartUpdateQuantity(logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(logg))
			r.Delete("/", controllers.WishlistClear(logg))
			r.Post("/items", controllers.WishlistAddItem(logg))
			r.Get("/items/{productId}", controllers.WishlistContains(logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(logg))
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", controllers.Search(logg))
			r.Get("/recent", controllers.SearchRecent(logg))
			r.Delete("/recent", controllers.SearchClearRecent(logg))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionState(logg))
			r.Post("/sign-in", controllers.SessionSignIn(logg))
			r.Delete("/", controllers.SessionSignOut(logg))
		})
	})

	return r
}
