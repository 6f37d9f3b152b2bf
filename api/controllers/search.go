package controllers

import (
	"net/http"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/api/validators"
	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/search"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

const (
	maxQueryLength  = 200
	maxResultsLimit = 100
)

type searchView struct {
	Query   string            `json:"query"`
	State   search.State      `json:"state"`
	Results []catalog.Product `json:"results"`
	Recent  []string          `json:"recent_queries"`
}

// Search runs a catalog search for the q parameter. The HTTP round trip
// already paces keystrokes, so this path fetches synchronously; the
// request-id guard inside the container still discards stale commits.
func Search(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxResultsLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		results, err := containers.Search.SearchNow(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog search failed"))
			return
		}
		if results == nil {
			results = []catalog.Product{}
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		responses.WriteSuccess(w, searchView{
			Query:   query,
			State:   containers.Search.State(),
			Results: results,
			Recent:  containers.Search.RecentQueries(),
		})
	}
}

// SearchRecent returns the bounded most-recent-first query list.
func SearchRecent(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		recent := containers.Search.RecentQueries()
		if recent == nil {
			recent = []string{}
		}
		responses.WriteSuccess(w, map[string]any{"recent_queries": recent})
	}
}

// SearchClearRecent empties the recent-query list.
func SearchClearRecent(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		containers.Search.ClearRecentQueries(ctx)
		responses.WriteSuccess(w, map[string]any{"recent_queries": []string{}})
	}
}
