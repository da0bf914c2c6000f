package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/presentation/graph"
	"github.com/aretw0/portals/internal/presentation/tui"
	"github.com/aretw0/portals/pkg/adapters/file"
	"github.com/aretw0/portals/pkg/adapters/litegraph"
	"github.com/aretw0/portals/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats of plans.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatMermaid}

// LoadTarget turns a CLI argument into a graph. Existing files are read as
// graph descriptions (YAML or JSON) or LiteGraph workflows; anything else is
// a graph ID in the engine's repository.
func LoadTarget(ctx context.Context, eng *portals.Engine, target string) (*domain.Graph, error) {
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return eng.Load(ctx, target)
	}

	if file.FormatOf(target) == file.FormatJSON {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", target, err)
		}
		if litegraph.IsWorkflow(data) {
			base := filepath.Base(target)
			return litegraph.New(litegraph.WithLogger(eng.Logger())).
				Import(strings.TrimSuffix(base, filepath.Ext(base)), data)
		}
	}
	return file.ReadGraph(target)
}

// ResolveOptions configures RunResolve.
type ResolveOptions struct {
	Format    string
	Translate bool
	// Strict makes warning diagnostics an error.
	Strict bool
}

// RunResolve loads target, resolves it and writes the result to w.
func RunResolve(ctx context.Context, eng *portals.Engine, w io.Writer, target string, opts ResolveOptions) error {
	g, err := LoadTarget(ctx, eng, target)
	if err != nil {
		return err
	}
	if err := eng.Validate(g); err != nil {
		return err
	}

	var plan *domain.Plan
	if opts.Translate {
		tr := eng.Translate(ctx, g)
		plan = tr.Plan
		if err := WriteTranslation(w, tr, opts.Format); err != nil {
			return err
		}
	} else {
		plan = eng.Plan(ctx, g)
		if err := WritePlan(w, g, plan, opts.Format); err != nil {
			return err
		}
	}

	if blocking := plan.Blocking(); opts.Strict && len(blocking) > 0 {
		return fmt.Errorf("%w: %d warning diagnostics", ErrUnresolved, len(blocking))
	}
	return nil
}

// WritePlan renders a plan in the requested format.
func WritePlan(w io.Writer, g *domain.Graph, plan *domain.Plan, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, plan)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(plan)
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(g, plan))
		return err
	case FormatMarkdown:
		md := tui.PlanMarkdown(g, plan)
		if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
			out, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			md = out
		}
		_, err := io.WriteString(w, md)
		return err
	case FormatText, "":
		for _, e := range plan.VirtualEdges {
			fmt.Fprintf(w, "%s %s\n", e, e.Type.Normalize())
		}
		for _, d := range plan.Diagnostics {
			fmt.Fprintf(w, "%s %s\n", d.Level, d.Message())
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteTranslation renders the executable edge list.
func WriteTranslation(w io.Writer, tr *domain.Translation, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, tr)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(tr)
	case FormatText, "":
		for _, e := range tr.Edges {
			fmt.Fprintf(w, "%s %s\n", e, e.Type.Normalize())
		}
		for _, d := range tr.Plan.Diagnostics {
			fmt.Fprintf(w, "%s %s\n", d.Level, d.Message())
		}
		return nil
	default:
		return fmt.Errorf("format %q does not support translated output", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
