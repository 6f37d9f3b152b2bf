package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
)

type staticFetcher struct{}

func (staticFetcher) FetchAll(context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func newTestManager(t *testing.T) *shopper.Manager {
	t.Helper()
	m, err := shopper.NewManager(shopper.ContainerParams{
		Bridge:  kvstore.NewBridge(kvstore.NewMemoryBackend(), nil),
		Fetcher: staticFetcher{},
	})
	if err != nil {
		t.Fatalf("building manager: %v", err)
	}
	return m
}

func TestSessionMintsIDWhenHeaderAbsent(t *testing.T) {
	manager := newTestManager(t)
	var sawContainers bool
	handler := Session("X-Souk-Session", manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		containers, err := shopper.FromContext(r.Context())
		if err != nil {
			t.Fatalf("containers missing from context: %v", err)
		}
		if containers.SessionID == "" {
			t.Fatalf("expected a minted session id")
		}
		sawContainers = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if !sawContainers {
		t.Fatalf("handler was not invoked")
	}
	if resp.Header().Get("X-Souk-Session") == "" {
		t.Fatalf("expected session id echoed on response")
	}
}

func TestSessionReusesProvidedID(t *testing.T) {
	manager := newTestManager(t)
	var got string
	handler := Session("X-Souk-Session", manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		containers, err := shopper.FromContext(r.Context())
		if err != nil {
			t.Fatalf("containers missing from context: %v", err)
		}
		got = containers.SessionID
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Souk-Session", "sess-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "sess-42" {
		t.Fatalf("expected sess-42 got %q", got)
	}
	if manager.Len() != 1 {
		t.Fatalf("expected one session bundle got %d", manager.Len())
	}
}
