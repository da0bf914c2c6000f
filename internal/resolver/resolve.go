package resolver

import (
	"context"
	"slices"

	"github.com/aretw0/portals/pkg/domain"
)

// Resolve matches every active Receiver of nodes against reg.
// Results are ordered by Receiver identifier.
func (r *Resolver) Resolve(ctx context.Context, nodes []domain.Node, reg *domain.Registry) []domain.Resolution {
	senders := make(map[string]domain.Node)
	for _, n := range nodes {
		if n.IsSender() {
			senders[n.ID] = n
		}
	}

	results := make([]domain.Resolution, 0)
	for _, n := range domain.SortNodes(nodes) {
		if !n.IsReceiver() {
			continue
		}
		if !n.Active() {
			r.logger.DebugContext(ctx, "Skipping inactive receiver", "receiver_id", n.ID, "mode", int(n.Mode))
			continue
		}
		results = append(results, r.resolveReceiver(n, reg, senders))
	}
	return results
}

func (r *Resolver) resolveReceiver(n domain.Node, reg *domain.Registry, senders map[string]domain.Node) domain.Resolution {
	name := n.Name()
	res := domain.Resolution{ReceiverID: n.ID, PortalName: name}

	if r.IsPlaceholder(name) {
		res.Failures = []domain.Diagnostic{failure(n.ID, name, domain.FailurePlaceholderName)}
		return res
	}

	entry, ok := reg.Lookup(name)
	if !ok {
		res.Failures = []domain.Diagnostic{failure(n.ID, name, domain.FailureNoSender)}
		return res
	}

	senderID, ok := entry.Sender()
	if !ok {
		d := failure(n.ID, name, domain.FailureAmbiguousSenders)
		d.Senders = slices.Clone(entry.Senders)
		res.Failures = []domain.Diagnostic{d}
		return res
	}

	slots := senders[senderID].ValueSlots()
	res.SenderID = senderID
	res.Arity = len(slots)

	// Receiver arity is advisory: an undeclared receiver takes the sender's arity.
	requested := len(n.Outputs)
	if requested == 0 {
		requested = len(slots)
	}

	for i := 0; i < requested; i++ {
		if i >= len(slots) {
			d := failure(n.ID, name, domain.FailureNoSender)
			d.Slot = i
			d.SenderID = senderID
			res.Failures = append(res.Failures, d)
			continue
		}
		t := slots[i].Type
		if i < len(n.Outputs) {
			t = domain.Narrow(t, n.Outputs[i].Type)
		}
		res.Bindings = append(res.Bindings, domain.SlotBinding{
			ReceiverSlot: i,
			SenderSlot:   i,
			Type:         t.Normalize(),
		})
	}
	return res
}

func failure(receiverID, name string, kind domain.FailureKind) domain.Diagnostic {
	return domain.Diagnostic{
		ReceiverID: receiverID,
		PortalName: name,
		Kind:       kind,
		Level:      kind.Level(),
		Slot:       domain.WholeNode,
	}
}
