package schema

import (
	"fmt"

	"github.com/aretw0/portals/pkg/domain"
)

// ValidateGraph checks the structural integrity of a graph description.
// Returns an *AggregateError with every failure found, or nil.
func ValidateGraph(g *domain.Graph) error {
	if g == nil {
		return &AggregateError{Errors: []error{&ValidationError{Key: "graph", Reason: "required"}}}
	}

	var errs []error
	index := make(map[string]domain.Node, len(g.Nodes))

	for i, n := range g.Nodes {
		key := fmt.Sprintf("nodes[%d]", i)
		if n.ID == "" {
			errs = append(errs, &ValidationError{Key: key + ".id", Reason: "required"})
			continue
		}
		if _, dup := index[n.ID]; dup {
			errs = append(errs, &ValidationError{Key: key + ".id", Reason: "duplicate node id", Value: n.ID})
			continue
		}
		index[n.ID] = n

		switch n.Kind {
		case domain.KindSender, domain.KindReceiver, domain.KindOther:
		default:
			errs = append(errs, &ValidationError{Key: key + ".kind", Reason: "unknown node kind", Value: n.Kind})
		}
	}

	linked := make(map[domain.SlotRef]int)
	for i, e := range g.Edges {
		key := fmt.Sprintf("edges[%d]", i)
		if e.Virtual {
			errs = append(errs, &ValidationError{Key: key, Reason: "virtual edges are not part of a graph description", Value: e.String()})
			continue
		}

		from, fromOK := slotOf(index, e.From, false)
		if !fromOK {
			errs = append(errs, &ValidationError{Key: key + ".from", Reason: "unknown output slot", Value: e.From.String()})
		}
		to, toOK := slotOf(index, e.To, true)
		if !toOK {
			errs = append(errs, &ValidationError{Key: key + ".to", Reason: "unknown input slot", Value: e.To.String()})
		}

		if prev, taken := linked[e.To]; taken {
			errs = append(errs, &ValidationError{
				Key:    key + ".to",
				Reason: fmt.Sprintf("input slot already linked by edges[%d]", prev),
				Value:  e.To.String(),
			})
		} else {
			linked[e.To] = i
		}

		if fromOK && toOK {
			if !domain.Compatible(from.Type, to.Type) || !domain.Compatible(e.Type, to.Type) || !domain.Compatible(from.Type, e.Type) {
				errs = append(errs, &ValidationError{
					Key:    key + ".type",
					Reason: fmt.Sprintf("type mismatch: %s -> %s", domain.Narrow(e.Type, from.Type), to.Type.Normalize()),
					Value:  e.String(),
				})
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func slotOf(index map[string]domain.Node, ref domain.SlotRef, input bool) (domain.Slot, bool) {
	n, ok := index[ref.NodeID]
	if !ok {
		return domain.Slot{}, false
	}
	slots := n.Outputs
	if input {
		slots = n.Inputs
	}
	if ref.Slot < 0 || ref.Slot >= len(slots) {
		return domain.Slot{}, false
	}
	return slots[ref.Slot], true
}
