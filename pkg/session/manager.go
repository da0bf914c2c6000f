package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/aretw0/portals/pkg/schema"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Planner runs a resolution pass.
type Planner interface {
	Plan(ctx context.Context, g *domain.Graph) *domain.Plan
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates graph edits, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store   ports.GraphStore
	planner Planner

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager on a store, re-resolving edits with planner.
func NewManager(store ports.GraphStore, planner Planner, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		planner: planner,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(graphID) after unlocking.
func (m *Manager) acquire(graphID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[graphID]
	if !exists {
		entry = &lockEntry{}
		m.locks[graphID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(graphID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[graphID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, graphID)
	}
}

// WithLock executes fn while holding the lock for the graph.
func (m *Manager) WithLock(ctx context.Context, graphID string, fn func(context.Context) error) error {
	entry := m.acquire(graphID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(graphID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, graphID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"graph_id", graphID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load retrieves a graph from the store.
func (m *Manager) Load(ctx context.Context, graphID string) (*domain.Graph, error) {
	var g *domain.Graph
	err := m.WithLock(ctx, graphID, func(ctx context.Context) error {
		var err error
		g, err = m.store.Load(ctx, graphID)
		return err
	})
	return g, err
}

// Plan loads a graph and resolves it.
func (m *Manager) Plan(ctx context.Context, graphID string) (*domain.Plan, error) {
	g, err := m.Load(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return m.planner.Plan(ctx, g), nil
}

// Put validates and stores g, replacing any previous version, and returns its fresh plan.
func (m *Manager) Put(ctx context.Context, g *domain.Graph) (*domain.Plan, error) {
	if g == nil || g.ID == "" {
		return nil, fmt.Errorf("%w: graph id is required", domain.ErrInvalidGraph)
	}
	var plan *domain.Plan
	err := m.WithLock(ctx, g.ID, func(ctx context.Context) error {
		var err error
		plan, err = m.commit(ctx, g.Persistable())
		return err
	})
	return plan, err
}

// Update applies an edit to a stored graph under its lock.
// The edited graph is validated, saved and re-resolved. When fn fails nothing is saved.
func (m *Manager) Update(ctx context.Context, graphID string, fn func(g *domain.Graph) error) (*domain.Plan, error) {
	var plan *domain.Plan
	err := m.WithLock(ctx, graphID, func(ctx context.Context) error {
		g, err := m.store.Load(ctx, graphID)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		if g.ID != graphID {
			return fmt.Errorf("%w: edit changed graph id %q to %q", domain.ErrInvalidGraph, graphID, g.ID)
		}
		plan, err = m.commit(ctx, g.Persistable())
		return err
	})
	return plan, err
}

func (m *Manager) commit(ctx context.Context, g *domain.Graph) (*domain.Plan, error) {
	if err := schema.ValidateGraph(g); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save graph %s: %w", g.ID, err)
	}
	plan := m.planner.Plan(ctx, g)
	m.logger.DebugContext(ctx, "Graph saved",
		"graph_id", g.ID,
		"nodes", len(g.Nodes),
		"virtual_edges", len(plan.VirtualEdges),
		"diagnostics", len(plan.Diagnostics),
	)
	return plan, nil
}

// Rename sets the portal name of a Sender or Receiver and returns the fresh plan.
func (m *Manager) Rename(ctx context.Context, graphID, nodeID, portal string) (*domain.Plan, error) {
	return m.Update(ctx, graphID, func(g *domain.Graph) error {
		for i := range g.Nodes {
			n := &g.Nodes[i]
			if n.ID != nodeID {
				continue
			}
			if !n.IsSender() && !n.IsReceiver() {
				return fmt.Errorf("%w: node %s is not a portal node", domain.ErrInvalidGraph, nodeID)
			}
			n.PortalName = portal
			return nil
		}
		return fmt.Errorf("%w: node %s not found in graph %s", domain.ErrInvalidGraph, nodeID, graphID)
	})
}

// Delete removes the graph from the store.
func (m *Manager) Delete(ctx context.Context, graphID string) error {
	return m.WithLock(ctx, graphID, func(ctx context.Context) error {
		return m.store.Delete(ctx, graphID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying graph store.
func (m *Manager) Store() ports.GraphStore {
	return m.store
}
