package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/pkg/schema"
)

var (
	// ErrUnresolved is returned in strict mode when a plan has warning diagnostics.
	ErrUnresolved = errors.New("unresolved portals")
	// ErrValidationFailed is returned when at least one graph failed validation.
	ErrValidationFailed = errors.New("validation failed")
)

// RunValidate checks each target (every graph of the repository when empty)
// for structural errors and, with strict, for warning diagnostics.
func RunValidate(ctx context.Context, eng *portals.Engine, w io.Writer, targets []string, strict bool) error {
	if len(targets) == 0 {
		ids, err := eng.ListGraphs(ctx)
		if err != nil {
			return err
		}
		targets = ids
	}
	if len(targets) == 0 {
		fmt.Fprintln(w, "No graphs found.")
		return nil
	}

	failed := 0
	for _, target := range targets {
		g, err := LoadTarget(ctx, eng, target)
		if err != nil {
			failed++
			fmt.Fprintf(w, "❌ %s: %v\n", target, err)
			continue
		}

		if err := eng.Validate(g); err != nil {
			failed++
			fmt.Fprintf(w, "❌ %s\n", target)
			for _, verr := range schema.ValidationErrors(err) {
				fmt.Fprintf(w, "   - %v\n", verr)
			}
			continue
		}

		plan := eng.Plan(ctx, g)
		blocking := plan.Blocking()
		switch {
		case len(blocking) == 0:
			fmt.Fprintf(w, "✅ %s (%d virtual edges)\n", target, len(plan.VirtualEdges))
		case strict:
			failed++
			fmt.Fprintf(w, "❌ %s\n", target)
		default:
			fmt.Fprintf(w, "⚠️  %s\n", target)
		}
		for _, d := range plan.Diagnostics {
			fmt.Fprintf(w, "   - %s %s\n", d.Level, d.Message())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d graphs", ErrValidationFailed, failed, len(targets))
	}
	return nil
}
