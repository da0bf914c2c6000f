package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/portals/pkg/adapters/litegraph"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/aretw0/portals/pkg/schema"
)

// RunImport converts a LiteGraph workflow file into a graph description and
// saves it to store. id overrides the ID derived from the file name.
func RunImport(ctx context.Context, store ports.GraphStore, src, id string, logger *slog.Logger) (*domain.Graph, error) {
	g, err := litegraph.New(litegraph.WithLogger(logger)).ImportFile(src)
	if err != nil {
		return nil, err
	}
	if id != "" {
		g.ID = id
	}
	if err := schema.ValidateGraph(g); err != nil {
		return nil, fmt.Errorf("imported graph %s: %w", g.ID, err)
	}
	if err := store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save graph %s: %w", g.ID, err)
	}
	logger.Info("Graph imported", "graph_id", g.ID, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}
