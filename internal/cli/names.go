package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/pkg/domain"
)

// NamesOptions selects which name listing RunNames prints.
type NamesOptions struct {
	// Used lists portals that are both declared and requested, with their types.
	Used bool
	// Choices lists what a Receiver selector should offer, falling back to
	// the first placeholder when nothing is declared.
	Choices bool
	JSON    bool
}

// RunNames prints the portal names declared in target.
func RunNames(ctx context.Context, eng *portals.Engine, w io.Writer, target string, opts NamesOptions) error {
	g, err := LoadTarget(ctx, eng, target)
	if err != nil {
		return err
	}

	if opts.Used {
		used := eng.UsedPortals(g)
		if opts.JSON {
			return writeJSON(w, used)
		}
		for _, u := range used {
			fmt.Fprintf(w, "%s\t%s\n", u.Name, joinTypes(u.Types))
		}
		return nil
	}

	names := eng.ListPortalNames(g)
	if opts.Choices {
		names = eng.Choices(g)
	}
	if opts.JSON {
		return writeJSON(w, names)
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

func joinTypes(types []domain.TypeTag) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t.Normalize())
	}
	return strings.Join(parts, ",")
}
