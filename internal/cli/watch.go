package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/presentation/tui"
)

// RunWatch resolves graphID and re-resolves it whenever the repository reports
// a change to it. An empty graphID follows every graph. It returns when ctx is done.
func RunWatch(ctx context.Context, eng *portals.Engine, w io.Writer, graphID, format string) error {
	events, err := eng.Watch(ctx)
	if err != nil {
		return err
	}

	logger := eng.Logger()
	tui.PrintBanner(w, portals.Version)
	printSystemMessage(w, "Watching '%s' for changes.", eng.Name)

	render := func(id string) {
		g, err := eng.Load(ctx, id)
		if err != nil {
			printSystemMessage(w, "Failed to load '%s': %v", id, err)
			return
		}
		if err := eng.Validate(g); err != nil {
			printSystemMessage(w, "Graph '%s' is invalid: %v", id, err)
			return
		}
		plan := eng.Plan(ctx, g)
		printSystemMessage(w, "%s: %s", id, tui.Summary(plan))
		if err := WritePlan(w, g, plan, format); err != nil {
			logger.Error("Render failed", "graph_id", id, "err", err)
		}
	}

	if graphID != "" {
		render(graphID)
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case id, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if graphID != "" && id != graphID {
				continue
			}
			logger.Info("Graph changed", "graph_id", id)
			render(id)
		}
	}
}
