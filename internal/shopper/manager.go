package shopper

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultIdleTTL = 30 * time.Minute

// Manager is the single construction point for session containers. Each
// session id maps to exactly one bundle for the manager's lifetime, so the
// in-memory state stays authoritative between requests from the same
// shopper. Bundles idle past the TTL are reclaimed by Sweep; the bridge
// mirror stays behind, so a returning shopper rebuilds the same state.
type Manager struct {
	mu       sync.Mutex
	params   ContainerParams
	idleTTL  time.Duration
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	containers *Containers
	lastSeen   time.Time
}

// NewManager validates the shared dependencies once, up front.
func NewManager(params ContainerParams) (*Manager, error) {
	if params.Bridge == nil {
		return nil, fmt.Errorf("storage bridge is required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher is required")
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = defaultIdleTTL
	}
	return &Manager{
		params:   params,
		idleTTL:  params.IdleTTL,
		sessions: make(map[string]*sessionEntry),
	}, nil
}

// Containers returns the bundle for the session, constructing it on first
// use and refreshing the session's idle clock.
func (m *Manager) Containers(ctx context.Context, sessionID string) (*Containers, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sessionID]; ok {
		existing.lastSeen = time.Now()
		return existing.containers, nil
	}
	built, err := newContainers(ctx, sessionID, m.params)
	if err != nil {
		return nil, err
	}
	m.sessions[sessionID] = &sessionEntry{containers: built, lastSeen: time.Now()}
	return built, nil
}

// Evict drops a session's bundle, stopping its pending search work. The
// bridge mirror stays behind for the next construction.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(sessionID)
}

func (m *Manager) evictLocked(sessionID string) {
	if existing, ok := m.sessions[sessionID]; ok {
		existing.containers.Search.Close()
		delete(m.sessions, sessionID)
	}
}

// Sweep evicts every session idle longer than the TTL and reports how many
// were reclaimed.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for sessionID, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			m.evictLocked(sessionID)
			evicted++
		}
	}
	return evicted
}

// SweepLoop runs Sweep on a ticker until the context is cancelled.
func (m *Manager) SweepLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.idleTTL / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len reports how many sessions currently hold containers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
