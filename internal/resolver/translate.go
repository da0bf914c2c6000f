package resolver

import (
	"context"

	"github.com/aretw0/portals/pkg/domain"
)

// Translate resolves g and flattens every portal hop for execution.
//
// Each explicit edge leaving a resolved Receiver slot is replaced by a virtual
// edge from the true upstream source feeding the matching Sender slot.
// Chained portals are followed. Edges towards inactive consumers, and edges
// whose Sender slot has no upstream, are kept as drawn.
func (r *Resolver) Translate(ctx context.Context, g *domain.Graph) *domain.Translation {
	plan := r.Plan(ctx, g)

	index := g.NodeIndex()
	incoming := g.Incoming()
	portals := make(map[domain.SlotRef]domain.Edge, len(plan.VirtualEdges))
	for _, ve := range plan.VirtualEdges {
		portals[ve.To] = ve
	}

	edges := make([]domain.Edge, 0, len(g.Edges))
	for _, e := range g.ExplicitEdges() {
		ve, ok := portals[e.From]
		if !ok {
			edges = append(edges, e)
			continue
		}
		if consumer, known := index[e.To.NodeID]; known && !consumer.Active() {
			edges = append(edges, e)
			continue
		}

		src, found := trueSource(ve.From, incoming, portals, map[domain.SlotRef]bool{})
		if !found {
			r.logger.DebugContext(ctx, "Sender slot has no upstream, keeping drawn edge",
				"sender_slot", ve.From.String(),
				"portal", ve.Portal,
			)
			edges = append(edges, e)
			continue
		}

		edges = append(edges, domain.Edge{
			From:    src.From,
			To:      e.To,
			Type:    domain.Narrow(ve.Type, src.Type),
			Virtual: true,
			Portal:  ve.Portal,
		})
	}
	domain.SortEdges(edges)

	return &domain.Translation{Plan: plan, Edges: edges}
}

// trueSource follows the explicit edge feeding a Sender slot. When that edge
// leaves another resolved Receiver, the walk continues through its portal.
func trueSource(senderSlot domain.SlotRef, incoming map[domain.SlotRef]domain.Edge, portals map[domain.SlotRef]domain.Edge, visited map[domain.SlotRef]bool) (domain.Edge, bool) {
	if visited[senderSlot] {
		return domain.Edge{}, false
	}
	visited[senderSlot] = true

	e, ok := incoming[senderSlot]
	if !ok {
		return domain.Edge{}, false
	}
	if hop, chained := portals[e.From]; chained {
		return trueSource(hop.From, incoming, portals, visited)
	}
	return e, true
}
