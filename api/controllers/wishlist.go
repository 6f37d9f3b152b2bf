package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/api/validators"
	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	"github.com/medinasouk/storefront-backend/internal/wishlist"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

type addWishlistItemBody struct {
	Product catalog.Product `json:"product"`
}

type wishlistView struct {
	Entries []wishlist.Entry `json:"entries"`
	Count   int              `json:"count"`
}

func wishlistViewOf(s wishlist.Store) wishlistView {
	entries := s.Entries()
	return wishlistView{Entries: entries, Count: len(entries)}
}

// WishlistFetch returns the session's saved products.
func WishlistFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistViewOf(containers.Wishlist))
	}
}

// WishlistAddItem saves a product snapshot. Adding a product twice is a
// no-op beyond refreshing the snapshot.
func WishlistAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body addWishlistItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if strings.TrimSpace(body.Product.ID) == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		containers.Wishlist.Add(ctx, body.Product)
		responses.WriteSuccessStatus(w, http.StatusCreated, wishlistViewOf(containers.Wishlist))
	}
}

// WishlistContains reports whether a product is saved.
func WishlistContains(logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, map[string]bool{"contains": containers.Wishlist.Contains(productID)})
	}
}

// WishlistRemoveItem drops a saved product.
func WishlistRemoveItem(logg *logger.Logger) http.HandlerFunc {
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

		containers.Wishlist.Remove(ctx, productID)
		responses.WriteSuccess(w, wishlistViewOf(containers.Wishlist))
	}
}

// WishlistClear empties the wishlist.
func WishlistClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		containers.Wishlist.Clear(ctx)
		responses.WriteSuccess(w, wishlistViewOf(containers.Wishlist))
	}
}
