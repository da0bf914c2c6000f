package litegraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Importer converts LiteGraph/ComfyUI workflow documents into graph snapshots.
type Importer struct {
	classes *registry.Registry
	logger  *slog.Logger
}

// Option configures the Importer.
type Option func(*Importer)

// WithClasses sets the class registry used to recognise portal nodes.
func WithClasses(r *registry.Registry) Option {
	return func(i *Importer) {
		if r != nil {
			i.classes = r
		}
	}
}

// WithLogger sets the logger used to report skipped links.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an Importer that knows the standard portal classes.
func New(opts ...Option) *Importer {
	i := &Importer{
		classes: registry.Default(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportFile reads a workflow file. The graph ID is the file name without extension.
func (i *Importer) ImportFile(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	base := filepath.Base(path)
	return i.Import(strings.TrimSuffix(base, filepath.Ext(base)), data)
}

// Import decodes a workflow document into a graph with the given ID.
func (i *Importer) Import(id string, data []byte) (*domain.Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid workflow json: %w", err)
	}

	var wf workflow
	if err := decode(raw, &wf); err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	g := &domain.Graph{ID: id, Nodes: make([]domain.Node, 0, len(wf.Nodes))}

	// Widget inputs are dropped, so link target slots must be remapped.
	inputSlot := make(map[string][]int, len(wf.Nodes))
	for _, wn := range wf.Nodes {
		n, remap := i.toNode(wn)
		g.Nodes = append(g.Nodes, n)
		inputSlot[n.ID] = remap
	}

	for idx, rawLink := range wf.Links {
		link, err := parseLink(rawLink)
		if err != nil {
			return nil, fmt.Errorf("links[%d]: %w", idx, err)
		}
		remap, ok := inputSlot[link.TargetID]
		if !ok || link.TargetSlot < 0 || link.TargetSlot >= len(remap) || remap[link.TargetSlot] < 0 {
			i.logger.Debug("Skipping link to a widget or unknown input",
				"link_id", link.ID,
				"target", link.TargetID,
				"target_slot", link.TargetSlot,
			)
			continue
		}
		g.Edges = append(g.Edges, domain.Edge{
			From: domain.SlotRef{NodeID: link.OriginID, Slot: link.OriginSlot},
			To:   domain.SlotRef{NodeID: link.TargetID, Slot: remap[link.TargetSlot]},
			Type: domain.TypeTag(link.Type),
		})
	}
	domain.SortEdges(g.Edges)
	return g, nil
}

func (i *Importer) toNode(wn workflowNode) (domain.Node, []int) {
	n := domain.Node{
		ID:    wn.ID,
		Class: wn.Type,
		Kind:  i.classes.KindOf(wn.Type),
		Mode:  domain.Mode(wn.Mode),
	}

	remap := make([]int, len(wn.Inputs))
	for idx, s := range wn.Inputs {
		if s.Widget != nil {
			remap[idx] = -1
			continue
		}
		remap[idx] = len(n.Inputs)
		n.Inputs = append(n.Inputs, domain.Slot{Name: s.Name, Type: domain.TypeTag(s.Type)})
	}
	for _, s := range wn.Outputs {
		n.Outputs = append(n.Outputs, domain.Slot{Name: s.Name, Type: domain.TypeTag(s.Type)})
	}

	if n.Kind != domain.KindOther {
		info, _ := i.classes.Lookup(wn.Type)
		n.PortalName = widgetValue(wn.WidgetsValues, info.NameWidget)
	}
	return n, remap
}

// widgetValue reads the portal name from list or map shaped widget values.
func widgetValue(values any, index int) string {
	switch v := values.(type) {
	case []any:
		if index >= 0 && index < len(v) {
			if s, ok := v[index].(string); ok {
				return s
			}
		}
	case map[string]any:
		if s, ok := v["portal_name"].(string); ok {
			return s
		}
	}
	return ""
}

func parseLink(raw any) (workflowLink, error) {
	var link workflowLink
	switch v := raw.(type) {
	case []any:
		if len(v) < 5 {
			return link, fmt.Errorf("expected at least 5 fields, got %d", len(v))
		}
		fields := map[string]any{
			"id":          v[0],
			"origin_id":   v[1],
			"origin_slot": v[2],
			"target_id":   v[3],
			"target_slot": v[4],
		}
		if len(v) > 5 {
			fields["type"] = v[5]
		}
		return link, decode(fields, &link)
	case map[string]any:
		return link, decode(v, &link)
	default:
		return link, fmt.Errorf("unexpected link form %T", raw)
	}
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// IsWorkflow reports whether data looks like a LiteGraph workflow rather than
// a plain graph description: workflows carry last_node_id or typed nodes.
func IsWorkflow(data []byte) bool {
	var probe struct {
		LastNodeID any `json:"last_node_id"`
		Nodes      []struct {
			Type string `json:"type"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	if probe.LastNodeID != nil {
		return true
	}
	return len(probe.Nodes) > 0 && probe.Nodes[0].Type != ""
}
