package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/medinasouk/storefront-backend/pkg/config"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/metrics"
)

// Forwarder passes requests through to the external storefront backend.
// Method, headers, body and status travel verbatim; there is no caching,
// retry or backpressure here.
type Forwarder struct {
	target  *url.URL
	logg    *logger.Logger
	metrics *metrics.ShopperMetrics
}

// NewForwarder builds a forwarder for the configured backend base URL.
func NewForwarder(cfg config.BackendConfig, logg *logger.Logger, m *metrics.ShopperMetrics) (*Forwarder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	target, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}
	return &Forwarder{target: target, logg: logg, metrics: m}, nil
}

// Handler returns the proxy handler, rewriting the given mount prefix off
// the forwarded path.
func (f *Forwarder) Handler(stripPrefix string) http.Handler {
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(f.target)
			pr.Out.Host = f.target.Host
			if stripPrefix != "" {
				trimmed := strings.TrimPrefix(pr.In.URL.Path, stripPrefix)
				if !strings.HasPrefix(trimmed, "/") {
					trimmed = "/" + trimmed
				}
				pr.Out.URL.Path = singleJoin(f.target.Path, trimmed)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if f.logg != nil {
				f.logg.Error(r.Context(), "backend proxy round trip failed", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"code":"DEPENDENCY_ERROR","message":"storefront backend unavailable"}}`))
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.metrics != nil {
			f.metrics.IncProxyRequest(r.Method)
		}
		rp.ServeHTTP(w, r)
	})
}

func singleJoin(a, b string) string {
	aSlash := strings.HasSuffix(a, "/")
	bSlash := strings.HasPrefix(b, "/")
	switch {
	case aSlash && bSlash:
		return a + b[1:]
	case !aSlash && !bSlash:
		return a + "/" + b
	}
	return a + b
}
