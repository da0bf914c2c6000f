package ports

import (
	"context"

	"github.com/aretw0/portals/pkg/domain"
)

// GraphLoader defines how the resolver host retrieves graph snapshots.
type GraphLoader interface {
	// Load returns the graph with the given ID.
	// Returns domain.ErrGraphNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Graph, error)

	// List returns the IDs of every available graph in sorted order.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the ID of every graph that changed.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
