package dsl

import (
	"fmt"

	"github.com/aretw0/portals/pkg/adapters/memory"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/schema"
)

// Builder manages the graph construction.
type Builder struct {
	id    string
	name  string
	order []string
	nodes map[string]*NodeBuilder
	edges []domain.Edge
}

// New creates a new graph builder.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Named sets the display name of the graph.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// Node creates a plain node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:   id,
			Kind: domain.KindOther,
		},
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Sender adds a Sender node declaring the portal name.
func (b *Builder) Sender(id, portal string) *NodeBuilder {
	nb := b.Node(id)
	nb.node.Kind = domain.KindSender
	nb.node.Class = domain.ClassSetPortal
	nb.node.PortalName = portal
	return nb
}

// Receiver adds a Receiver node requesting the portal name.
func (b *Builder) Receiver(id, portal string) *NodeBuilder {
	nb := b.Node(id)
	nb.node.Kind = domain.KindReceiver
	nb.node.Class = domain.ClassGetPortal
	nb.node.PortalName = portal
	return nb
}

// Link draws an explicit edge from an output slot to an input slot.
// The edge takes the type of the source slot when it is already declared.
func (b *Builder) Link(fromID string, fromSlot int, toID string, toSlot int) *Builder {
	e := domain.Edge{
		From: domain.SlotRef{NodeID: fromID, Slot: fromSlot},
		To:   domain.SlotRef{NodeID: toID, Slot: toSlot},
	}
	if nb, ok := b.nodes[fromID]; ok && fromSlot >= 0 && fromSlot < len(nb.node.Outputs) {
		e.Type = nb.node.Outputs[fromSlot].Type
	}
	b.edges = append(b.edges, e)
	return b
}

// Graph returns the graph as built so far, without validation.
func (b *Builder) Graph() *domain.Graph {
	g := &domain.Graph{ID: b.id, Name: b.name}
	g.Nodes = make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.nodes[id].node.Clone())
	}
	g.Edges = append([]domain.Edge(nil), b.edges...)
	return g
}

// Build returns the graph after structural validation.
func (b *Builder) Build() (*domain.Graph, error) {
	g := b.Graph()
	if err := schema.ValidateGraph(g); err != nil {
		return nil, fmt.Errorf("failed to build graph %q: %w", b.id, err)
	}
	return g, nil
}

// Store builds the graph and wraps it in an in-memory store.
func (b *Builder) Store() (*memory.Store, error) {
	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.New(g), nil
}
