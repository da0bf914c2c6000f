package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/domain"
)

// Resolver computes virtual wiring for portal nodes.
type Resolver struct {
	placeholders []string
	reserved     map[string]struct{}
	prefix       string
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = hooks
	}
}

// WithPlaceholders replaces the reserved placeholder names.
// The first name is offered as the dropdown fallback when no portal exists.
func WithPlaceholders(names ...string) Option {
	return func(r *Resolver) {
		r.placeholders = nil
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				r.placeholders = append(r.placeholders, n)
			}
		}
	}
}

// WithPlaceholderPrefix treats every name starting with prefix as unselected.
func WithPlaceholderPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.prefix = prefix
	}
}

// New creates a Resolver with the default placeholder set.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		placeholders: domain.DefaultPlaceholders(),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reserved = make(map[string]struct{}, len(r.placeholders))
	for _, p := range r.placeholders {
		r.reserved[p] = struct{}{}
	}
	return r
}

// IsPlaceholder reports whether a (trimmed) portal name can never match a Sender.
func (r *Resolver) IsPlaceholder(name string) bool {
	if name == "" {
		return true
	}
	if _, ok := r.reserved[name]; ok {
		return true
	}
	return r.prefix != "" && strings.HasPrefix(name, r.prefix)
}

// Placeholders returns the configured reserved names in order.
func (r *Resolver) Placeholders() []string {
	return append([]string(nil), r.placeholders...)
}

// Plan runs a full resolution pass over g.
func (r *Resolver) Plan(ctx context.Context, g *domain.Graph) *domain.Plan {
	start := time.Now()
	if r.hooks.OnResolveStart != nil {
		r.hooks.OnResolveStart(ctx, &domain.ResolveEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventResolveStart, GraphID: g.ID},
			Nodes:     len(g.Nodes),
		})
	}

	nodes := inferSenderTypes(g)
	reg := r.BuildRegistry(nodes)
	results := r.Resolve(ctx, nodes, reg)
	edges, diags := Materialize(results)

	for _, d := range diags {
		r.report(ctx, g.ID, d)
	}

	plan := &domain.Plan{
		GraphID:      g.ID,
		Portals:      reg.Entries(),
		Resolutions:  results,
		VirtualEdges: edges,
		Diagnostics:  diags,
	}

	elapsed := time.Since(start)
	r.logger.DebugContext(ctx, "Resolution pass complete",
		"graph_id", g.ID,
		"portals", reg.Len(),
		"virtual_edges", len(edges),
		"diagnostics", len(diags),
		"duration", elapsed,
	)

	if r.hooks.OnResolveEnd != nil {
		r.hooks.OnResolveEnd(ctx, &domain.ResolveEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventResolveEnd, GraphID: g.ID},
			Nodes:        len(g.Nodes),
			Portals:      reg.Len(),
			VirtualEdges: len(edges),
			Diagnostics:  len(diags),
			Duration:     elapsed,
		})
	}

	return plan
}

// report logs a diagnostic at its level and forwards it to the hooks.
func (r *Resolver) report(ctx context.Context, graphID string, d domain.Diagnostic) {
	attrs := []any{
		"graph_id", graphID,
		"receiver_id", d.ReceiverID,
		"portal", d.PortalName,
		"kind", string(d.Kind),
	}
	if d.Slot != domain.WholeNode {
		attrs = append(attrs, "slot", d.Slot)
	}
	if len(d.Senders) > 0 {
		attrs = append(attrs, "senders", d.Senders)
	}

	if d.Level == domain.LevelInfo {
		r.logger.InfoContext(ctx, d.Message(), attrs...)
	} else {
		r.logger.WarnContext(ctx, d.Message(), attrs...)
	}

	if r.hooks.OnDiagnostic != nil {
		r.hooks.OnDiagnostic(ctx, &domain.DiagnosticEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventDiagnostic, GraphID: graphID},
			Diagnostic: d,
		})
	}
}
