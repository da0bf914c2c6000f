package dsl

import "github.com/aretw0/portals/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.Node
}

// Class sets the host class name of the node.
func (n *NodeBuilder) Class(class string) *NodeBuilder {
	n.node.Class = class
	return n
}

// Input appends an input slot.
func (n *NodeBuilder) Input(name string, t domain.TypeTag) *NodeBuilder {
	n.node.Inputs = append(n.node.Inputs, domain.Slot{Name: name, Type: t})
	return n
}

// Output appends an output slot.
func (n *NodeBuilder) Output(name string, t domain.TypeTag) *NodeBuilder {
	n.node.Outputs = append(n.node.Outputs, domain.Slot{Name: name, Type: t})
	return n
}

// Mode sets the execution mode of the node.
func (n *NodeBuilder) Mode(m domain.Mode) *NodeBuilder {
	n.node.Mode = m
	return n
}

// Muted is shorthand for Mode(domain.ModeNever).
func (n *NodeBuilder) Muted() *NodeBuilder {
	return n.Mode(domain.ModeNever)
}

// Bypassed is shorthand for Mode(domain.ModeBypass).
func (n *NodeBuilder) Bypassed() *NodeBuilder {
	return n.Mode(domain.ModeBypass)
}
