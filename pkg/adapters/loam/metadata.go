package loam

// GraphMetadata represents the frontmatter of a graph document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type GraphMetadata struct {
	ID    string         `json:"id" mapstructure:"id"`
	Name  string         `json:"name" mapstructure:"name"`
	Nodes []NodeMetadata `json:"nodes" mapstructure:"nodes"`
	Edges []EdgeMetadata `json:"edges" mapstructure:"edges"`
}

// NodeMetadata is one node entry. IDs may be written as numbers or strings.
type NodeMetadata struct {
	ID    any    `json:"id" mapstructure:"id"`
	Kind  string `json:"kind" mapstructure:"kind"`
	Class string `json:"class" mapstructure:"class"`

	// Portal is the portal name (sugar: "name").
	Portal string `json:"portal" mapstructure:"portal"`
	Name   string `json:"name" mapstructure:"name"`

	Mode     int  `json:"mode" mapstructure:"mode"`
	Muted    bool `json:"muted" mapstructure:"muted"`
	Bypassed bool `json:"bypassed" mapstructure:"bypassed"`

	Inputs  []SlotMetadata `json:"inputs" mapstructure:"inputs"`
	Outputs []SlotMetadata `json:"outputs" mapstructure:"outputs"`
}

// SlotMetadata is one positional slot.
type SlotMetadata struct {
	Name string `json:"name" mapstructure:"name"`
	Type string `json:"type" mapstructure:"type"`
}

// EdgeMetadata is one explicit edge. Endpoints use the "node:slot" notation,
// a bare node ID means slot 0.
type EdgeMetadata struct {
	From string `json:"from" mapstructure:"from"`
	To   string `json:"to" mapstructure:"to"`
	Type string `json:"type" mapstructure:"type"`
}
