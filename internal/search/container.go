package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/metrics"
)

// State names the container's position in the keystroke lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateFetching   State = "fetching"
	StateReady      State = "ready"
	StateError      State = "error"
)

const (
	defaultDebounceInterval = 300 * time.Millisecond
	defaultRecentLimit      = 5
)

// ContainerParams groups dependencies for the search container.
type ContainerParams struct {
	SessionID        string
	Bridge           *kvstore.Bridge
	Fetcher          catalog.Fetcher
	Logger           *logger.Logger
	Metrics          *metrics.ShopperMetrics
	DebounceInterval time.Duration
	RecentLimit      int
}

// Container owns the query/results state for one shopper session. Every
// keystroke restarts the debounce timer and invalidates any in-flight
// fetch; each fetch carries a monotonically increasing request id and only
// the highest id may commit results.
type Container struct {
	mu        sync.Mutex
	sessionID string
	bridge    *kvstore.Bridge
	fetcher   catalog.Fetcher
	logg      *logger.Logger
	metrics   *metrics.ShopperMetrics
	debounce  time.Duration
	limit     int

	timer      *time.Timer
	requestSeq uint64
	query      string
	state      State
	results    []catalog.Product
	lastErr    error
	recent     []string
}

// NewContainer builds a search container and loads the mirrored
// recent-query list once.
func NewContainer(ctx context.Context, params ContainerParams) (*Container, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if params.Bridge == nil {
		return nil, fmt.Errorf("storage bridge is required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher is required")
	}
	if params.DebounceInterval <= 0 {
		params.DebounceInterval = defaultDebounceInterval
	}
	if params.RecentLimit <= 0 {
		params.RecentLimit = defaultRecentLimit
	}
	c := &Container{
		sessionID: params.SessionID,
		bridge:    params.Bridge,
		fetcher:   params.Fetcher,
		logg:      params.Logger,
		metrics:   params.Metrics,
		debounce:  params.DebounceInterval,
		limit:     params.RecentLimit,
		state:     StateIdle,
	}
	c.loadRecent(ctx)
	return c, nil
}

// SetQuery registers a keystroke. The debounce timer restarts and any
// pending or in-flight fetch loses the right to commit.
func (c *Container) SetQuery(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.query = query
	if query == "" {
		c.state = StateIdle
		c.results = nil
		c.lastErr = nil
		return
	}

	c.state = StateDebouncing
	seq := c.requestSeq
	fetchCtx := context.WithoutCancel(ctx)
	c.timer = time.AfterFunc(c.debounce, func() {
		c.beginFetch(fetchCtx, query, seq)
	})
}

func (c *Container) beginFetch(ctx context.Context, query string, seq uint64) {
	c.mu.Lock()
	if seq != c.requestSeq {
		c.mu.Unlock()
		return
	}
	c.state = StateFetching
	c.mu.Unlock()

	start := time.Now()
	products, err := c.fetcher.FetchAll(ctx)
	if c.metrics != nil {
		c.metrics.ObserveFetch(time.Since(start), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.requestSeq {
		// A newer keystroke owns the state now.
		return
	}

	if err != nil {
		c.state = StateError
		c.results = nil
		c.lastErr = err
		if c.logg != nil {
			c.logg.Error(c.logg.WithContainer(ctx, "search"), "catalog fetch failed", err)
		}
		return
	}

	c.state = StateReady
	c.results = Filter(products, query)
	c.lastErr = nil
	c.pushRecent(ctx, query)
}

// SearchNow performs a synchronous fetch-and-filter for the given query,
// bypassing the debounce timer. Handlers that already waited on the wire
// use this path; the request-id guard still applies.
func (c *Container) SearchNow(ctx context.Context, query string) ([]catalog.Product, error) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.requestSeq++
	seq := c.requestSeq
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.query = query
	if query == "" {
		c.state = StateIdle
		c.results = nil
		c.lastErr = nil
		c.mu.Unlock()
		return nil, nil
	}
	c.state = StateFetching
	c.mu.Unlock()

	start := time.Now()
	products, err := c.fetcher.FetchAll(ctx)
	if c.metrics != nil {
		c.metrics.ObserveFetch(time.Since(start), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if seq == c.requestSeq {
			c.state = StateError
			c.results = nil
			c.lastErr = err
		}
		return nil, err
	}

	matched := Filter(products, query)
	if seq == c.requestSeq {
		c.state = StateReady
		c.results = matched
		c.lastErr = nil
		c.pushRecent(ctx, query)
	}
	return matched, nil
}

// Query returns the current query string.
func (c *Container) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// State returns the current lifecycle state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns a copy of the committed result list.
func (c *Container) Results() []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Product, len(c.results))
	copy(out, c.results)
	return out
}

// Err returns the failure behind the Error state, if any.
func (c *Container) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// RecentQueries returns the most-recent-first query list.
func (c *Container) RecentQueries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.recent))
	copy(out, c.recent)
	return out
}

// ClearRecentQueries empties the recent-query list and its mirror.
func (c *Container) ClearRecentQueries(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recent = nil
	c.bridge.Remove(ctx, kvstore.RecentSearchesKey(c.sessionID))
}

// Close stops any pending debounce timer.
func (c *Container) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// pushRecent inserts a query at the head, de-duplicating case-insensitively
// and trimming to the configured bound. Callers hold the lock.
func (c *Container) pushRecent(ctx context.Context, query string) {
	lowered := strings.ToLower(query)
	next := make([]string, 0, c.limit)
	next = append(next, query)
	for _, existing := range c.recent {
		if strings.ToLower(existing) == lowered {
			continue
		}
		next = append(next, existing)
		if len(next) == c.limit {
			break
		}
	}
	c.recent = next
	c.persistRecent(ctx)

	if c.metrics != nil {
		c.metrics.IncMutation("search", "recent_query")
	}
}

func (c *Container) persistRecent(ctx context.Context) {
	payload, err := json.Marshal(c.recent)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(c.logg.WithContainer(ctx, "search"), "marshal recent queries", err)
		}
		return
	}
	c.bridge.Write(ctx, kvstore.RecentSearchesKey(c.sessionID), string(payload))
}

func (c *Container) loadRecent(ctx context.Context) {
	raw, ok := c.bridge.Read(ctx, kvstore.RecentSearchesKey(c.sessionID))
	if !ok {
		return
	}
	var recent []string
	if err := json.Unmarshal([]byte(raw), &recent); err != nil {
		if c.logg != nil {
			c.logg.Error(c.logg.WithContainer(ctx, "search"), "discarding corrupt recent queries", err)
		}
		return
	}
	if len(recent) > c.limit {
		recent = recent[:c.limit]
	}
	c.recent = recent
}
