package domain

import (
	"slices"
	"strconv"
)

// Graph is one snapshot of a host graph: its nodes and explicit edges.
type Graph struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// CompareIDs orders node identifiers the way host editors assign them:
// numeric IDs numerically, numeric before non-numeric, the rest lexically.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortNodes returns a copy of nodes sorted by identifier order.
func SortNodes(nodes []Node) []Node {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b Node) int {
		return CompareIDs(a.ID, b.ID)
	})
	return sorted
}

// SortEdges sorts edges in place using CompareEdges.
func SortEdges(edges []Edge) {
	slices.SortStableFunc(edges, CompareEdges)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIndex builds an ID lookup table for the graph nodes.
func (g *Graph) NodeIndex() map[string]Node {
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// ExplicitEdges returns the edges that were drawn by the user.
func (g *Graph) ExplicitEdges() []Edge {
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !e.Virtual {
			out = append(out, e)
		}
	}
	return out
}

// Incoming indexes explicit edges by the input slot they feed.
// An input slot accepts one link; on duplicates the first edge wins.
func (g *Graph) Incoming() map[SlotRef]Edge {
	in := make(map[SlotRef]Edge)
	for _, e := range g.Edges {
		if e.Virtual {
			continue
		}
		if _, seen := in[e.To]; !seen {
			in[e.To] = e
		}
	}
	return in
}

// Outgoing indexes explicit edges by the output slot they leave.
func (g *Graph) Outgoing() map[SlotRef][]Edge {
	out := make(map[SlotRef][]Edge)
	for _, e := range g.Edges {
		if e.Virtual {
			continue
		}
		out[e.From] = append(out[e.From], e)
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{ID: g.ID, Name: g.Name}
	if g.Nodes != nil {
		c.Nodes = make([]Node, len(g.Nodes))
		for i, n := range g.Nodes {
			c.Nodes[i] = n.Clone()
		}
	}
	if g.Edges != nil {
		c.Edges = slices.Clone(g.Edges)
	}
	return c
}

// Persistable returns a copy of the graph without virtual edges.
// Stores call it so that resolver output never reaches a saved layout.
func (g *Graph) Persistable() *Graph {
	c := g.Clone()
	c.Edges = g.ExplicitEdges()
	return c
}
