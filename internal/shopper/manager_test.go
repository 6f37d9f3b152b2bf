package shopper

import (
	"context"
	"testing"
	"time"

	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct{}

func (staticFetcher) FetchAll(context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(ContainerParams{
		Bridge:  kvstore.NewBridge(kvstore.NewMemoryBackend(), nil),
		Fetcher: staticFetcher{},
	})
	require.NoError(t, err)
	return m
}

func TestManagerConstructsOncePerSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	first, err := m.Containers(ctx, "sess-1")
	require.NoError(t, err)
	again, err := m.Containers(ctx, "sess-1")
	require.NoError(t, err)
	require.Same(t, first, again)

	other, err := m.Containers(ctx, "sess-2")
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, m.Len())
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	a, err := m.Containers(ctx, "sess-a")
	require.NoError(t, err)
	b, err := m.Containers(ctx, "sess-b")
	require.NoError(t, err)

	a.Cart.AddItem(ctx, catalog.Product{ID: "p1", Name: "Berber Rug", Price: decimal.RequireFromString("10")}, 2)
	require.Equal(t, 2, a.Cart.ItemCount())
	require.Equal(t, 0, b.Cart.ItemCount())
}

func TestManagerEvictRebuildsFromMirror(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	first, err := m.Containers(ctx, "sess-1")
	require.NoError(t, err)
	first.Cart.AddItem(ctx, catalog.Product{ID: "p1", Name: "Berber Rug", Price: decimal.RequireFromString("10")}, 3)

	m.Evict("sess-1")
	require.Equal(t, 0, m.Len())

	rebuilt, err := m.Containers(ctx, "sess-1")
	require.NoError(t, err)
	require.NotSame(t, first, rebuilt)
	require.Equal(t, 3, rebuilt.Cart.ItemCount())
}

func TestManagerRequiresSessionID(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Containers(context.Background(), "")
	require.Error(t, err)
}

func TestFromContextOutsideProviderScope(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "outside a session scope")

	m := newTestManager(t)
	built, err := m.Containers(context.Background(), "sess-1")
	require.NoError(t, err)

	ctx := WithContainers(context.Background(), built)
	got, err := FromContext(ctx)
	require.NoError(t, err)
	require.Same(t, built, got)
}

func TestManagerSweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ContainerParams{
		Bridge:  kvstore.NewBridge(kvstore.NewMemoryBackend(), nil),
		Fetcher: staticFetcher{},
		IdleTTL: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	stale, err := m.Containers(ctx, "sess-stale")
	require.NoError(t, err)
	stale.Cart.AddItem(ctx, catalog.Product{ID: "p1", Name: "Berber Rug", Price: decimal.RequireFromString("10")}, 2)

	time.Sleep(40 * time.Millisecond)

	// A request inside the window keeps its session alive.
	active, err := m.Containers(ctx, "sess-active")
	require.NoError(t, err)

	require.Equal(t, 1, m.Sweep())
	require.Equal(t, 1, m.Len())

	kept, err := m.Containers(ctx, "sess-active")
	require.NoError(t, err)
	require.Same(t, active, kept)

	// The evicted session rebuilds from its bridge mirror.
	rebuilt, err := m.Containers(ctx, "sess-stale")
	require.NoError(t, err)
	require.NotSame(t, stale, rebuilt)
	require.Equal(t, 2, rebuilt.Cart.ItemCount())
}

func TestManagerContainersRefreshesIdleClock(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ContainerParams{
		Bridge:  kvstore.NewBridge(kvstore.NewMemoryBackend(), nil),
		Fetcher: staticFetcher{},
		IdleTTL: 30 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = m.Containers(ctx, "sess-1")
	require.NoError(t, err)

	// Keep touching the session at sub-TTL intervals; it must survive.
	for i := 0; i < 3; i++ {
		time.Sleep(15 * time.Millisecond)
		_, err = m.Containers(ctx, "sess-1")
		require.NoError(t, err)
	}

	require.Equal(t, 0, m.Sweep())
	require.Equal(t, 1, m.Len())
}
