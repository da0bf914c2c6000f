package ports

import (
	"context"

	"github.com/aretw0/portals/pkg/domain"
)

// GraphStore persists graph descriptions.
type GraphStore interface {
	GraphLoader

	// Save persists the graph under g.ID. Virtual edges are dropped.
	Save(ctx context.Context, g *domain.Graph) error

	// Delete removes the graph. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
