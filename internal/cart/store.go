package cart

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

// Line is one product-quantity pair in the cart. Unit price is captured at
// add time and never re-read from the catalog.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref"`
	SlugRef   string          `json:"slug_ref"`
	Quantity  int             `json:"quantity"`
}

// Store owns the cart line list for one shopper session. Mutations rebuild
// the list, mirror it through the bridge and recompute aggregates under one
// lock; callers never observe a partial update and never receive an error.
type Store interface {
	AddItem(ctx context.Context, product catalog.Product, quantity int)
	RemoveItem(ctx context.Context, productID string)
	UpdateItemQuantity(ctx context.Context, productID string, quantity int)
	Clear(ctx context.Context)
	Lines() []Line
	Subtotal() decimal.Decimal
	ItemCount() int
}

// StoreParams groups dependencies for the cart store.
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

	lines     []Line
	subtotal  decimal.Decimal
	itemCount int
}

// NewStore builds a cart store and loads any mirrored state once. After
// this load the in-memory list is authoritative for the session.
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
		subtotal:  decimal.Zero,
	}
	s.load(ctx)
	return s, nil
}

func (s *store) load(ctx context.Context) {
	raw, ok := s.bridge.Read(ctx, kvstore.CartKey(s.sessionID))
	if !ok {
		return
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Corrupt mirror: start empty rather than fail the session.
		if s.logg != nil {
			s.logg.Error(s.logg.WithContainer(ctx, "cart"), "discarding corrupt cart state", err)
		}
		return
	}
	s.lines = lines
	s.recompute()
}

// AddItem adds quantity of the product, merging into an existing line. The
// effective unit price is resolved once, here.
func (s *store) AddItem(ctx context.Context, product catalog.Product, quantity int) {
	if product.ID == "" {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	next := make([]Line, 0, len(s.lines)+1)
	for _, line := range s.lines {
		if line.ProductID == product.ID {
			line.Quantity += quantity
			merged = true
		}
		next = append(next, line)
	}
	if !merged {
		next = append(next, Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: catalog.EffectiveUnitPrice(product),
			ImageRef:  product.FeaturedImage(),
			SlugRef:   product.Slug,
			Quantity:  quantity,
		})
	}

	s.commit(ctx, next, "add_item")
}

// RemoveItem deletes the line for the product; absent lines are a no-op.
func (s *store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		if line.ProductID == productID {
			continue
		}
		next = append(next, line)
	}
	s.commit(ctx, next, "remove_item")
}

// UpdateItemQuantity sets the line quantity exactly; zero or negative
// quantities are normalized to a removal.
func (s *store) UpdateItemQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		if line.ProductID == productID {
			line.Quantity = quantity
		}
		next = append(next, line)
	}
	s.commit(ctx, next, "update_quantity")
}

// Clear empties the cart.
func (s *store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, nil, "clear")
}

// commit replaces the list, mirrors it and recomputes aggregates. Callers
// hold the lock.
func (s *store) commit(ctx context.Context, next []Line, op string) {
	s.lines = next
	s.persist(ctx)
	s.recompute()
	if s.metrics != nil {
		s.metrics.IncMutation("cart", op)
	}
}

func (s *store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.lines)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithContainer(ctx, "cart"), "marshal cart state", err)
		}
		return
	}
	s.bridge.Write(ctx, kvstore.CartKey(s.sessionID), string(payload))
}

func (s *store) recompute() {
	subtotal := decimal.Zero
	count := 0
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	s.subtotal = subtotal
	s.itemCount = count
}

// Lines returns a copy of the current line list.
func (s *store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (s *store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal
}

// ItemCount returns the sum of quantities over all lines.
func (s *store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}
