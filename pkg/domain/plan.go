package domain

// SlotBinding pairs a Receiver output slot with a Sender value slot.
type SlotBinding struct {
	ReceiverSlot int     `json:"receiver_slot" yaml:"receiver_slot"`
	SenderSlot   int     `json:"sender_slot" yaml:"sender_slot"`
	Type         TypeTag `json:"type,omitempty" yaml:"type,omitempty"`
}

// Resolution is the outcome of resolving one Receiver.
type Resolution struct {
	ReceiverID string `json:"receiver_id" yaml:"receiver_id"`
	PortalName string `json:"portal_name" yaml:"portal_name"`

	// SenderID is set when the name matched exactly one Sender.
	SenderID string `json:"sender_id,omitempty" yaml:"sender_id,omitempty"`

	// Arity is the matched Sender's slot count, the size the host should give the Receiver.
	Arity int `json:"arity,omitempty" yaml:"arity,omitempty"`

	Bindings []SlotBinding `json:"bindings,omitempty" yaml:"bindings,omitempty"`

	// Failures holds the whole-node failure, or the per-slot failures of a partial match.
	Failures []Diagnostic `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Matched reports whether the Receiver was paired with a Sender.
func (r Resolution) Matched() bool {
	return r.SenderID != ""
}

// Plan is the output of one resolution pass over a graph snapshot.
type Plan struct {
	GraphID      string          `json:"graph_id,omitempty" yaml:"graph_id,omitempty"`
	Portals      []RegistryEntry `json:"portals" yaml:"portals"`
	Resolutions  []Resolution    `json:"resolutions" yaml:"resolutions"`
	VirtualEdges []Edge          `json:"virtual_edges" yaml:"virtual_edges"`
	Diagnostics  []Diagnostic    `json:"diagnostics" yaml:"diagnostics"`
}

// Blocking returns the diagnostics at warning level.
func (p *Plan) Blocking() []Diagnostic {
	var out []Diagnostic
	for _, d := range p.Diagnostics {
		if d.Blocking() {
			out = append(out, d)
		}
	}
	return out
}

// Translation is a plan flattened for execution: the explicit edges of the
// graph with every portal hop replaced by a direct virtual edge.
type Translation struct {
	Plan  *Plan  `json:"plan" yaml:"plan"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// UsedPortal is a portal both declared by a Sender and requested by a Receiver.
type UsedPortal struct {
	Name  string    `json:"name" yaml:"name"`
	Types []TypeTag `json:"types" yaml:"types"`
}
