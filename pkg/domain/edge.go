package domain

import "fmt"

// SlotRef points at one positional slot of a node.
type SlotRef struct {
	NodeID string `json:"node_id" yaml:"node_id"`
	Slot   int    `json:"slot" yaml:"slot"`
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s:%d", r.NodeID, r.Slot)
}

// Edge is a directed connection between an output slot and an input slot.
//
// Virtual edges are produced by the resolver: From then points at a Sender
// value slot and To at the matching Receiver value slot (or, after
// translation, at the true upstream source and downstream consumer).
type Edge struct {
	From SlotRef `json:"from" yaml:"from"`
	To   SlotRef `json:"to" yaml:"to"`
	Type TypeTag `json:"type,omitempty" yaml:"type,omitempty"`

	Virtual bool   `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Portal  string `json:"portal,omitempty" yaml:"portal,omitempty"`
}

func (e Edge) String() string {
	arrow := "->"
	if e.Virtual {
		arrow = "~>"
	}
	return fmt.Sprintf("%s %s %s", e.From, arrow, e.To)
}

// CompareEdges orders edges by source, then target. Ties on both ends put
// explicit edges before virtual ones.
func CompareEdges(a, b Edge) int {
	if c := compareRefs(a.From, b.From); c != 0 {
		return c
	}
	if c := compareRefs(a.To, b.To); c != 0 {
		return c
	}
	switch {
	case a.Virtual == b.Virtual:
		return 0
	case !a.Virtual:
		return -1
	default:
		return 1
	}
}

func compareRefs(a, b SlotRef) int {
	if c := CompareIDs(a.NodeID, b.NodeID); c != 0 {
		return c
	}
	return a.Slot - b.Slot
}
