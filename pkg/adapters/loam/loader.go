package loam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/registry"
)

// Loader adapts a Loam repository to the ports.GraphLoader interface.
// Every document in the repository describes one graph in its frontmatter.
type Loader struct {
	Repo    *loam.TypedRepository[GraphMetadata]
	classes *registry.Registry
}

// Option configures the Loader.
type Option func(*Loader)

// WithClasses sets the class registry used to infer node kinds from host classes.
func WithClasses(r *registry.Registry) Option {
	return func(l *Loader) {
		if r != nil {
			l.classes = r
		}
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[GraphMetadata], opts ...Option) *Loader {
	l := &Loader{
		Repo:    repo,
		classes: registry.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric types consistent across Markdown, JSON and YAML.
	// The resolver never writes graphs back, so the repository is read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[GraphMetadata](repo), opts...), nil
}

// Load retrieves a graph document and converts it to a domain graph.
// id may be given with or without its file extension. The graph ID is the
// document path without extension; a frontmatter id, when present, must agree.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Graph, error) {
	graphID := trimExtension(id)
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	if declared := strings.TrimSpace(doc.Data.ID); declared != "" && declared != graphID {
		return nil, fmt.Errorf("%w: document %s declares id %q", domain.ErrInvalidGraph, graphID, declared)
	}
	return l.toGraph(graphID, doc.Data)
}

func (l *Loader) toGraph(id string, meta GraphMetadata) (*domain.Graph, error) {
	g := &domain.Graph{
		ID:    id,
		Name:  meta.Name,
		Nodes: make([]domain.Node, 0, len(meta.Nodes)),
	}

	for i, nm := range meta.Nodes {
		nodeID := idString(nm.ID)
		if nodeID == "" {
			return nil, fmt.Errorf("graph %s: nodes[%d] missing id", id, i)
		}
		g.Nodes = append(g.Nodes, l.toNode(nodeID, nm))
	}

	for i, em := range meta.Edges {
		from, err := parseRef(em.From)
		if err != nil {
			return nil, fmt.Errorf("graph %s: edges[%d].from: %w", id, i, err)
		}
		to, err := parseRef(em.To)
		if err != nil {
			return nil, fmt.Errorf("graph %s: edges[%d].to: %w", id, i, err)
		}
		g.Edges = append(g.Edges, domain.Edge{From: from, To: to, Type: domain.TypeTag(em.Type)})
	}
	return g, nil
}

func (l *Loader) toNode(id string, nm NodeMetadata) domain.Node {
	n := domain.Node{
		ID:         id,
		Kind:       domain.NodeKind(nm.Kind),
		Class:      nm.Class,
		PortalName: nm.Portal,
		Mode:       domain.Mode(nm.Mode),
	}
	if n.PortalName == "" {
		n.PortalName = nm.Name
	}
	if n.Kind == "" {
		n.Kind = l.classes.KindOf(nm.Class)
	}
	switch {
	case nm.Muted:
		n.Mode = domain.ModeNever
	case nm.Bypassed:
		n.Mode = domain.ModeBypass
	}
	for _, s := range nm.Inputs {
		n.Inputs = append(n.Inputs, domain.Slot{Name: s.Name, Type: domain.TypeTag(s.Type)})
	}
	for _, s := range nm.Outputs {
		n.Outputs = append(n.Outputs, domain.Slot{Name: s.Name, Type: domain.TypeTag(s.Type)})
	}
	return n
}

// List lists all graphs in the repository, keyed like Load by document path
// without extension. Two documents differing only in extension collide.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]struct{}, len(docs))
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined by more than one document", id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Recursive doublestar pattern, filtering is done by Loam.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// idString formats a node ID decoded from YAML/JSON, where it may be a number.
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// parseRef parses "node:slot". The slot defaults to 0.
func parseRef(s string) (domain.SlotRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.SlotRef{}, fmt.Errorf("empty endpoint")
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return domain.SlotRef{NodeID: s}, nil
	}
	slot, err := strconv.Atoi(s[i+1:])
	if err != nil || slot < 0 {
		return domain.SlotRef{}, fmt.Errorf("invalid slot in %q", s)
	}
	return domain.SlotRef{NodeID: s[:i], Slot: slot}, nil
}
