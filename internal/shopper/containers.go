package shopper

import (
	"context"
	"fmt"
	"time"

	"github.com/medinasouk/storefront-backend/internal/cart"
	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/search"
	"github.com/medinasouk/storefront-backend/internal/session"
	"github.com/medinasouk/storefront-backend/internal/wishlist"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/metrics"
)

// Containers bundles the per-session state stores handed to handlers.
type Containers struct {
	SessionID string
	Cart      cart.Store
	Wishlist  wishlist.Store
	Search    *search.Container
	Session   *session.Store
}

// ContainerParams groups the shared dependencies every session reuses.
type ContainerParams struct {
	Bridge           *kvstore.Bridge
	Fetcher          catalog.Fetcher
	Logger           *logger.Logger
	Metrics          *metrics.ShopperMetrics
	DebounceInterval time.Duration
	RecentLimit      int
	IdleTTL          time.Duration
}

// newContainers builds the full bundle for one session, loading each
// container's mirrored state exactly once.
func newContainers(ctx context.Context, sessionID string, params ContainerParams) (*Containers, error) {
	cartStore, err := cart.NewStore(ctx, cart.StoreParams{
		SessionID: sessionID,
		Bridge:    params.Bridge,
		Logger:    params.Logger,
		Metrics:   params.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("building cart store: %w", err)
	}
	wishlistStore, err := wishlist.NewStore(ctx, wishlist.StoreParams{
		SessionID: sessionID,
		Bridge:    params.Bridge,
		Logger:    params.Logger,
		Metrics:   params.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("building wishlist store: %w", err)
	}
	searchContainer, err := search.NewContainer(ctx, search.ContainerParams{
		SessionID:        sessionID,
		Bridge:           params.Bridge,
		Fetcher:          params.Fetcher,
		Logger:           params.Logger,
		Metrics:          params.Metrics,
		DebounceInterval: params.DebounceInterval,
		RecentLimit:      params.RecentLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("building search container: %w", err)
	}
	sessionStore, err := session.NewStore(ctx, session.StoreParams{
		SessionID: sessionID,
		Bridge:    params.Bridge,
		Logger:    params.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building session store: %w", err)
	}

	return &Containers{
		SessionID: sessionID,
		Cart:      cartStore,
		Wishlist:  wishlistStore,
		Search:    searchContainer,
		Session:   sessionStore,
	}, nil
}
