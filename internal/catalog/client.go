package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/medinasouk/storefront-backend/pkg/config"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
)

// Fetcher is the surface the search container depends on.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Product, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the full product list from the external catalog endpoint.
// One unauthenticated GET, no pagination: the catalog is assumed small.
type Client struct {
	baseURL string
	http    httpDoer
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.FetchTimeout},
	}, nil
}

// FetchAll downloads and decodes the complete product list.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog payload")
	}
	return products, nil
}
