package resolver

import "github.com/aretw0/portals/pkg/domain"

// Materialize turns successful bindings into virtual edges and collects
// failures as diagnostics. Both keep the order of results.
func Materialize(results []domain.Resolution) ([]domain.Edge, []domain.Diagnostic) {
	edges := make([]domain.Edge, 0)
	diags := make([]domain.Diagnostic, 0)

	for _, res := range results {
		for _, b := range res.Bindings {
			edges = append(edges, domain.Edge{
				From:    domain.SlotRef{NodeID: res.SenderID, Slot: b.SenderSlot},
				To:      domain.SlotRef{NodeID: res.ReceiverID, Slot: b.ReceiverSlot},
				Type:    b.Type,
				Virtual: true,
				Portal:  res.PortalName,
			})
		}
		diags = append(diags, res.Failures...)
	}
	return edges, diags
}
