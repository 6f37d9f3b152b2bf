package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/api/validators"
	"github.com/medinasouk/storefront-backend/internal/cart"
	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// addCartItemBody carries the product snapshot the client already holds.
// The state layer never re-reads the catalog for cart pricing.
type addCartItemBody struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity" validate:"max=999"`
}

type updateCartQuantityBody struct {
	Quantity int `json:"quantity" validate:"max=999"`
}

type cartView struct {
	Lines     []cart.Line     `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

func viewOf(c cart.Store) cartView {
	return cartView{
		Lines:     c.Lines(),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}

// CartFetch returns the session's cart lines and aggregates.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(containers.Cart))
	}
}

// CartAddItem merges a product into the cart, summing quantities when the
// product is already present.
func CartAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body addCartItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if strings.TrimSpace(body.Product.ID) == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}
		if body.Product.Price.IsNegative() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative"))
			return
		}

		containers.Cart.AddItem(ctx, body.Product, body.Quantity)
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(containers.Cart))
	}
}

// CartUpdateQuantity replaces a line's quantity; zero or less removes the
// line entirely.
func CartUpdateQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var body updateCartQuantityBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		containers.Cart.UpdateItemQuantity(ctx, productID, body.Quantity)
		responses.WriteSuccess(w, viewOf(containers.Cart))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		containers.Cart.RemoveItem(ctx, productID)
		responses.WriteSuccess(w, viewOf(containers.Cart))
	}
}

// CartClear empties the cart.
func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		containers.Cart.Clear(ctx)
		responses.WriteSuccess(w, viewOf(containers.Cart))
	}
}
