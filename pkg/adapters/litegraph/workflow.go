package litegraph

// workflow is the subset of a LiteGraph/ComfyUI workflow document the importer reads.
type workflow struct {
	Nodes []workflowNode `mapstructure:"nodes"`
	Links []any          `mapstructure:"links"`
}

type workflowNode struct {
	ID    string `mapstructure:"id"`
	Type  string `mapstructure:"type"`
	Title string `mapstructure:"title"`
	Mode  int    `mapstructure:"mode"`

	Inputs  []workflowSlot `mapstructure:"inputs"`
	Outputs []workflowSlot `mapstructure:"outputs"`

	// WidgetsValues is a list in most documents, a map in some newer ones.
	WidgetsValues any `mapstructure:"widgets_values"`
}

type workflowSlot struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`

	// Widget is set on inputs that mirror a widget (e.g. a converted portal_name).
	Widget map[string]any `mapstructure:"widget"`
}

// workflowLink is the object form of a link. The compact form is
// [id, origin_id, origin_slot, target_id, target_slot, type].
type workflowLink struct {
	ID         string `mapstructure:"id"`
	OriginID   string `mapstructure:"origin_id"`
	OriginSlot int    `mapstructure:"origin_slot"`
	TargetID   string `mapstructure:"target_id"`
	TargetSlot int    `mapstructure:"target_slot"`
	Type       string `mapstructure:"type"`
}
