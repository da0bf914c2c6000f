package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/portals/pkg/domain"
)

// Store implements ports.GraphStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Graph
	mu   sync.RWMutex
}

// New creates a new in-memory store seeded with graphs.
func New(graphs ...*domain.Graph) *Store {
	s := &Store{
		data: make(map[string]*domain.Graph),
	}
	for _, g := range graphs {
		if g != nil {
			s.data[g.ID] = g.Persistable()
		}
	}
	return s
}

// Save persists a copy of the graph, without its virtual edges.
func (s *Store) Save(ctx context.Context, g *domain.Graph) error {
	copied := g.Persistable()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[g.ID] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored graph by pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.data[id]
	if !ok {
		return nil, domain.ErrGraphNotFound
	}
	return g.Clone(), nil
}

// Delete removes the graph.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored graph IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
