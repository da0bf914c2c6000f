package domain

import "strings"

// NodeKind constants define how the resolver treats a node.
type NodeKind string

const (
	// KindSender declares a portal name and offers its input values to it.
	KindSender NodeKind = "sender"
	// KindReceiver declares a portal name and requests its values on its outputs.
	KindReceiver NodeKind = "receiver"
	// KindOther is any node the resolver ignores.
	KindOther NodeKind = "other"
)

// Mode mirrors the execution mode of a node in the host editor.
type Mode int

const (
	// ModeAlways is the regular, active mode.
	ModeAlways Mode = 0
	// ModeNever marks a muted node.
	ModeNever Mode = 2
	// ModeBypass marks a bypassed node.
	ModeBypass Mode = 4
)

// Active reports whether nodes in this mode take part in resolution and execution.
func (m Mode) Active() bool {
	return m != ModeNever && m != ModeBypass
}

// Slot is a positional value slot. It carries no data, only a type tag.
type Slot struct {
	Name string  `json:"name" yaml:"name"`
	Type TypeTag `json:"type,omitempty" yaml:"type,omitempty"`
}

// Node represents a vertex of the host graph.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Class is the host node class (e.g. "SetNamedPortal"). Informational only.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// PortalName is only meaningful for Senders and Receivers.
	PortalName string `json:"portal_name,omitempty" yaml:"portal_name,omitempty"`

	Mode Mode `json:"mode,omitempty" yaml:"mode,omitempty"`

	Inputs  []Slot `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []Slot `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// IsSender reports whether the node is a Sender.
func (n Node) IsSender() bool { return n.Kind == KindSender }

// IsReceiver reports whether the node is a Receiver.
func (n Node) IsReceiver() bool { return n.Kind == KindReceiver }

// Active reports whether the node takes part in resolution.
func (n Node) Active() bool { return n.Mode.Active() }

// Name returns the trimmed portal name.
func (n Node) Name() string {
	return strings.TrimSpace(n.PortalName)
}

// ValueSlots returns the slots carrying portal values: inputs for a Sender,
// outputs for a Receiver and nil for any other node.
func (n Node) ValueSlots() []Slot {
	switch n.Kind {
	case KindSender:
		return n.Inputs
	case KindReceiver:
		return n.Outputs
	default:
		return nil
	}
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Inputs != nil {
		c.Inputs = append([]Slot(nil), n.Inputs...)
	}
	if n.Outputs != nil {
		c.Outputs = append([]Slot(nil), n.Outputs...)
	}
	return c
}
