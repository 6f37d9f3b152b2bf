package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Entry is a snapshot of a product's display data, saved outside the cart.
type Entry struct {
	ProductID       string           `json:"product_id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	SalePrice       *decimal.Decimal `json:"sale_price,omitempty"`
	OnSale          bool             `json:"on_sale"`
	Images          []string         `json:"images,omitempty"`
	SlugRef         string           `json:"slug_ref"`
	ArtisanName     string           `json:"artisan_name"`
	ArtisanLocation string           `json:"artisan_location"`
}

// Store owns the wishlist for one shopper session, with the same
// synchronous mirror discipline as the cart.
type Store interface {
	Add(ctx context.Context, product catalog.Product)
	Remove(ctx context.Context, productID string)
	Clear(ctx context.Context)
	Contains(productID string) bool
	Entries() []Entry
}

// StoreParams groups dependencies for the wishlist store.
type StoreParams struct {
	SessionID string
	Bridge    *kvstore.Bridge
	Logger    *logger.Logger
	Metrics   *metrics.ShopperMetrics
}

type store struct {
	mu        sync.Mutex
	sessionID string
	bridge    *kvstore.Bridge
	logg      *logger.Logger
	metrics   *metrics.ShopperMetrics

	entries []Entry
}

// NewStore builds a wishlist store and loads any mirrored state once.
func NewStore(ctx context.Context, params StoreParams) (Store, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if params.Bridge == nil {
		return nil, fmt.Errorf("storage bridge is required")
	}
	s := &store{
		sessionID: params.SessionID,
		bridge:    params.Bridge,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}
	s.load(ctx)
	return s, nil
}

func (s *store) load(ctx context.Context) {
	raw, ok := s.bridge.Read(ctx, kvstore.WishlistKey(s.sessionID))
	if !ok {
		return
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithContainer(ctx, "wishlist"), "discarding corrupt wishlist state", err)
		}
		return
	}
	s.entries = entries
}

// Add saves the product snapshot. Re-adding a present product refreshes the
// snapshot without duplicating the entry.
func (s *store) Add(ctx context.Context, product catalog.Product) {
	if product.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ProductID:       product.ID,
		Name:            product.Name,
		Price:           product.Price,
		SalePrice:       product.SalePrice,
		OnSale:          product.OnSale,
		Images:          product.Images,
		SlugRef:         product.Slug,
		ArtisanName:     product.Artisan.Name,
		ArtisanLocation: product.Artisan.Location,
	}

	replaced := false
	next := make([]Entry, 0, len(s.entries)+1)
	for _, existing := range s.entries {
		if existing.ProductID == product.ID {
			next = append(next, entry)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, entry)
	}

	s.commit(ctx, next, "add")
}

// Remove drops the entry regardless of prior state.
func (s *store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			continue
		}
		next = append(next, entry)
	}
	s.commit(ctx, next, "remove")
}

// Clear empties the wishlist.
func (s *store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, nil, "clear")
}

// Contains reports whether the product is saved.
func (s *store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Entries returns a copy of the saved entries.
func (s *store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *store) commit(ctx context.Context, next []Entry, op string) {
	s.entries = next
	s.persist(ctx)
	if s.metrics != nil {
		s.metrics.IncMutation("wishlist", op)
	}
}

func (s *store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.entries)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithContainer(ctx, "wishlist"), "marshal wishlist state", err)
		}
		return
	}
	s.bridge.Write(ctx, kvstore.WishlistKey(s.sessionID), string(payload))
}
