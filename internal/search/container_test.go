package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

var testCatalog = []catalog.Product{
	{
		ID:       "p1",
		Name:     "Berber Rug",
		Category: "rugs",
		Tags:     []string{"wool", "handwoven"},
		Artisan:  catalog.Artisan{Name: "Fatima", Location: "Azilal"},
	},
	{
		ID:       "p2",
		Name:     "Tagine Pot",
		Category: "ceramics",
		Artisan:  catalog.Artisan{Name: "Hassan", Location: "Safi"},
	},
	{
		ID:          "p3",
		Name:        "Leather Pouf",
		Description: "hand-stitched leather",
		Category:    "leather",
		Artisan:     catalog.Artisan{Name: "Youssef", Location: "Fes"},
	},
}

type staticFetcher struct {
	products []catalog.Product
	err      error
}

func (f staticFetcher) FetchAll(context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

// blockingFetcher parks each FetchAll call until its release channel fires,
// so tests control response ordering.
type blockingFetcher struct {
	mu       sync.Mutex
	releases []chan struct{}
	products []catalog.Product
}

func (f *blockingFetcher) FetchAll(context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	release := make(chan struct{})
	f.releases = append(f.releases, release)
	f.mu.Unlock()
	<-release
	return f.products, nil
}

func (f *blockingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.releases)
}

func (f *blockingFetcher) release(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.releases[i])
}

func newTestContainer(t *testing.T, backend kvstore.Backend, fetcher catalog.Fetcher) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), ContainerParams{
		SessionID:        "sess-1",
		Bridge:           kvstore.NewBridge(backend, nil),
		Fetcher:          fetcher,
		DebounceInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestFilterMatchesAcrossFields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "rug", want: []string{"p1"}},
		{query: "TAGINE", want: []string{"p2"}},
		{query: "ceramics", want: []string{"p2"}},
		{query: "wool", want: []string{"p1"}},
		{query: "fes", want: []string{"p3"}},
		{query: "hassan", want: []string{"p2"}},
		{query: "stitched", want: []string{"p3"}},
		{query: "zellige", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			matched := Filter(testCatalog, tt.query)
			ids := make([]string, 0, len(matched))
			for _, p := range matched {
				ids = append(ids, p.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestDebouncedQueryCommitsResults(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, kvstore.NewMemoryBackend(), staticFetcher{products: testCatalog})

	c.SetQuery(ctx, "rug")
	require.Equal(t, StateDebouncing, c.State())

	require.Eventually(t, func() bool {
		return c.State() == StateReady
	}, time.Second, time.Millisecond)

	results := c.Results()
	require.Len(t, results, 1)
	require.Equal(t, "p1", results[0].ID)
	require.Equal(t, []string{"rug"}, c.RecentQueries())
}

func TestEmptyQueryResetsToIdle(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, kvstore.NewMemoryBackend(), staticFetcher{products: testCatalog})

	c.SetQuery(ctx, "rug")
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, time.Millisecond)

	c.SetQuery(ctx, "   ")
	require.Equal(t, StateIdle, c.State())
	require.Empty(t, c.Results())
}

func TestStaleFetchNeverOverwritesNewerQuery(t *testing.T) {
	ctx := context.Background()
	fetcher := &blockingFetcher{products: testCatalog}
	c := newTestContainer(t, kvstore.NewMemoryBackend(), fetcher)

	c.SetQuery(ctx, "rug")
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)

	// The shopper keeps typing before the first fetch lands.
	c.SetQuery(ctx, "tagine")
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, time.Millisecond)

	// The superseded fetch resolves first; its commit must be discarded.
	fetcher.release(0)
	fetcher.release(1)

	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, time.Millisecond)
	results := c.Results()
	require.Len(t, results, 1)
	require.Equal(t, "p2", results[0].ID, "stale rug results leaked into a tagine query")
	require.Equal(t, []string{"tagine"}, c.RecentQueries())
}

func TestFetchFailureMovesToErrorState(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, kvstore.NewMemoryBackend(), staticFetcher{err: errors.New("catalog down")})

	c.SetQuery(ctx, "rug")
	require.Eventually(t, func() bool { return c.State() == StateError }, time.Second, time.Millisecond)
	require.Empty(t, c.Results())
	require.Error(t, c.Err())
}

func TestSearchNowReturnsSynchronously(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, kvstore.NewMemoryBackend(), staticFetcher{products: testCatalog})

	results, err := c.SearchNow(ctx, "pouf")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "p3", results[0].ID)
	require.Equal(t, StateReady, c.State())
	require.Equal(t, []string{"pouf"}, c.RecentQueries())
}

func TestRecentQueriesBoundAndDedupe(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, kvstore.NewMemoryBackend(), staticFetcher{products: testCatalog})

	for _, q := range []string{"rug", "tagine", "pouf", "lantern", "babouche", "zellige"} {
		_, err := c.SearchNow(ctx, q)
		require.NoError(t, err)
	}

	recent := c.RecentQueries()
	require.Len(t, recent, 5)
	require.Equal(t, []string{"zellige", "babouche", "lantern", "pouf", "tagine"}, recent)

	// Case-insensitive re-search moves the query to the head without
	// duplicating it.
	_, err := c.SearchNow(ctx, "LANTERN")
	require.NoError(t, err)
	recent = c.RecentQueries()
	require.Len(t, recent, 5)
	require.Equal(t, "LANTERN", recent[0])
	for i, q := range recent[1:] {
		require.NotEqualf(t, "lantern", q, "duplicate at position %d", i+1)
	}
}

func TestRecentQueriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()

	first := newTestContainer(t, backend, staticFetcher{products: testCatalog})
	_, err := first.SearchNow(ctx, "rug")
	require.NoError(t, err)
	_, err = first.SearchNow(ctx, "tagine")
	require.NoError(t, err)

	second := newTestContainer(t, backend, staticFetcher{products: testCatalog})
	require.Equal(t, []string{"tagine", "rug"}, second.RecentQueries())

	second.ClearRecentQueries(ctx)
	third := newTestContainer(t, backend, staticFetcher{products: testCatalog})
	require.Empty(t, third.RecentQueries())
}
