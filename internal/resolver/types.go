package resolver

import "github.com/aretw0/portals/pkg/domain"

// inferSenderTypes returns copies of the graph nodes in which every wildcard
// Sender input takes the type of the explicit edge feeding it. The edge type
// is narrowed by the declared type of the upstream output slot.
func inferSenderTypes(g *domain.Graph) []domain.Node {
	index := g.NodeIndex()
	incoming := g.Incoming()

	nodes := make([]domain.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		c := n.Clone()
		if c.IsSender() {
			for s := range c.Inputs {
				if !c.Inputs[s].Type.IsAny() {
					continue
				}
				e, ok := incoming[domain.SlotRef{NodeID: c.ID, Slot: s}]
				if !ok {
					continue
				}
				t := e.Type
				if src, ok := index[e.From.NodeID]; ok && e.From.Slot >= 0 && e.From.Slot < len(src.Outputs) {
					t = domain.Narrow(src.Outputs[e.From.Slot].Type, e.Type)
				}
				c.Inputs[s].Type = t.Normalize()
			}
		}
		nodes[i] = c
	}
	return nodes
}
