package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/portals/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a graph.
// It applies semantic styling:
// - Sender: >Flag]
// - Receiver: {{Hexagon}}
// - Default: [Rectangle]
// Explicit edges are solid and labelled with their type. When a plan is given its
// virtual edges are drawn dotted and labelled with the portal name, and receivers
// with diagnostics are styled by level.
func GenerateMermaid(g *domain.Graph, plan *domain.Plan) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var inactive []string
	for _, node := range domain.SortNodes(g.Nodes) {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		label := node.ID
		switch node.Kind {
		case domain.KindSender:
			opener, closer = ">", "]"
			label = fmt.Sprintf("%s <br/> set: %s", node.ID, portalLabel(node))
		case domain.KindReceiver:
			opener, closer = "{{", "}}"
			label = fmt.Sprintf("%s <br/> get: %s", node.ID, portalLabel(node))
		default:
			if node.Class != "" {
				label = fmt.Sprintf("%s <br/> %s", node.ID, node.Class)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escape(label), closer))

		if !node.Active() {
			inactive = append(inactive, safeID)
		}
	}

	edges := g.ExplicitEdges()
	domain.SortEdges(edges)
	for _, e := range edges {
		arrow := "-->"
		if t := e.Type.Normalize(); t != domain.TypeAny {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(string(t)))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From.NodeID), arrow, sanitizeMermaidID(e.To.NodeID)))
	}

	if plan == nil {
		writeInactive(&sb, inactive)
		return sb.String()
	}

	for _, e := range plan.VirtualEdges {
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n",
			sanitizeMermaidID(e.From.NodeID), escape(e.Portal), sanitizeMermaidID(e.To.NodeID)))
	}

	if len(plan.Diagnostics) > 0 || len(inactive) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef warning fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef info fill:#e1f5fe,stroke:#01579b,stroke-dasharray: 4 4,color:#000;\n")
		sb.WriteString("    classDef inactive fill:#eeeeee,stroke:#9e9e9e,color:#757575;\n")

		// A receiver with both levels is styled by the worst one.
		levels := make(map[string]domain.Level)
		var order []string
		for _, d := range plan.Diagnostics {
			prev, seen := levels[d.ReceiverID]
			if !seen {
				order = append(order, d.ReceiverID)
			}
			if !seen || prev == domain.LevelInfo {
				levels[d.ReceiverID] = d.Level
			}
		}
		for _, id := range order {
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(id), levels[id]))
		}
		for _, id := range inactive {
			sb.WriteString(fmt.Sprintf("    class %s inactive;\n", id))
		}
	}

	return sb.String()
}

func writeInactive(sb *strings.Builder, ids []string) {
	if len(ids) == 0 {
		return
	}
	sb.WriteString("\n    classDef inactive fill:#eeeeee,stroke:#9e9e9e,color:#757575;\n")
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("    class %s inactive;\n", id))
	}
}

func portalLabel(n domain.Node) string {
	if name := n.Name(); name != "" {
		return name
	}
	return "(unset)"
}

// escape replaces double quotes, which terminate Mermaid labels.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// Mermaid reserves "end" and chokes on bare numeric ids in some renderers.
	return "n_" + s
}
