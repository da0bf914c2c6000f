package portals

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/internal/resolver"
	loamAdapter "github.com/aretw0/portals/pkg/adapters/loam"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/aretw0/portals/pkg/registry"
	"github.com/aretw0/portals/pkg/schema"
)

// Engine is the high-level entry point for the portals library.
// It wraps the resolver and an optional graph source behind a simplified API.
type Engine struct {
	resolver     *resolver.Resolver
	loader       ports.GraphLoader
	classes      *registry.Registry
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	placeholders []string
	prefix       string
	Name         string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom GraphLoader, bypassing the default Loam initialization.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPlaceholders replaces the reserved names treated as "no portal selected".
func WithPlaceholders(names ...string) Option {
	return func(e *Engine) {
		e.placeholders = names
	}
}

// WithPlaceholderPrefix treats every portal name with this prefix as unselected.
func WithPlaceholderPrefix(prefix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
	}
}

// WithClasses sets the host class registry used by the default loader.
func WithClasses(r *registry.Registry) Option {
	return func(e *Engine) {
		e.classes = r
	}
}

// New initializes a new Engine.
// By default, it reads graphs from a Loam repository at the given path.
// If WithLoader is provided, repoPath is only used as a label. With neither,
// the engine resolves graphs passed in directly and Load returns ErrNoLoader.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.classes == nil {
		eng.classes = registry.Default()
	}

	if repoPath != "" {
		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		if eng.loader == nil {
			loader, err := loamAdapter.Open(absPath, loamAdapter.WithClasses(eng.classes))
			if err != nil {
				return nil, err
			}
			eng.loader = loader
		}
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repo", eng.Name)
	}

	resolverOpts := []resolver.Option{
		resolver.WithLogger(eng.logger),
		resolver.WithLifecycleHooks(eng.hooks),
		resolver.WithPlaceholderPrefix(eng.prefix),
	}
	if eng.placeholders != nil {
		resolverOpts = append(resolverOpts, resolver.WithPlaceholders(eng.placeholders...))
	}
	eng.resolver = resolver.New(resolverOpts...)

	return eng, nil
}

// BuildRegistry groups the active Senders of nodes by portal name.
func (e *Engine) BuildRegistry(nodes []domain.Node) *domain.Registry {
	return e.resolver.BuildRegistry(nodes)
}

// Resolve matches every active Receiver of nodes against reg.
func (e *Engine) Resolve(ctx context.Context, nodes []domain.Node, reg *domain.Registry) []domain.Resolution {
	return e.resolver.Resolve(ctx, nodes, reg)
}

// Materialize converts resolution results into virtual edges and diagnostics.
func (e *Engine) Materialize(results []domain.Resolution) ([]domain.Edge, []domain.Diagnostic) {
	return resolver.Materialize(results)
}

// Plan runs one full resolution pass over g.
func (e *Engine) Plan(ctx context.Context, g *domain.Graph) *domain.Plan {
	return e.resolver.Plan(ctx, g)
}

// Translate resolves g and flattens portal hops into executable edges.
func (e *Engine) Translate(ctx context.Context, g *domain.Graph) *domain.Translation {
	return e.resolver.Translate(ctx, g)
}

// ListPortalNames returns the sorted names declared by active Senders.
func (e *Engine) ListPortalNames(g *domain.Graph) []string {
	return e.resolver.ListPortalNames(g)
}

// Choices returns the options a Receiver selector should offer.
func (e *Engine) Choices(g *domain.Graph) []string {
	return e.resolver.Choices(g)
}

// UsedPortals returns the portals both declared and requested in g.
func (e *Engine) UsedPortals(g *domain.Graph) []domain.UsedPortal {
	return e.resolver.UsedPortals(g)
}

// Placeholders returns the reserved names of the engine.
func (e *Engine) Placeholders() []string {
	return e.resolver.Placeholders()
}

// Validate checks the structure of g.
func (e *Engine) Validate(g *domain.Graph) error {
	return schema.ValidateGraph(g)
}

// Load reads a graph from the configured loader.
func (e *Engine) Load(ctx context.Context, id string) (*domain.Graph, error) {
	if e.loader == nil {
		return nil, domain.ErrNoLoader
	}
	return e.loader.Load(ctx, id)
}

// ListGraphs returns the graph IDs available from the loader.
func (e *Engine) ListGraphs(ctx context.Context) ([]string, error) {
	if e.loader == nil {
		return nil, domain.ErrNoLoader
	}
	return e.loader.List(ctx)
}

// PlanByID loads a graph and resolves it.
func (e *Engine) PlanByID(ctx context.Context, id string) (*domain.Plan, error) {
	g, err := e.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Plan(ctx, g), nil
}

// TranslateByID loads a graph and translates it for execution.
func (e *Engine) TranslateByID(ctx context.Context, id string) (*domain.Translation, error) {
	g, err := e.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Translate(ctx, g), nil
}

// Watch returns a channel that receives the IDs of changed graphs.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
