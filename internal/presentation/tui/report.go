package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/portals/pkg/domain"
	"github.com/muesli/termenv"
)

// PlanMarkdown renders a resolution plan as a markdown report.
func PlanMarkdown(g *domain.Graph, plan *domain.Plan) string {
	var sb strings.Builder

	title := g.ID
	if g.Name != "" {
		title = fmt.Sprintf("%s (%s)", g.Name, g.ID)
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	sb.WriteString("## Portals\n\n")
	if len(plan.Portals) == 0 {
		sb.WriteString("_No active Sender declares a portal._\n\n")
	} else {
		sb.WriteString("| Name | Senders | Status |\n|---|---|---|\n")
		for _, p := range plan.Portals {
			status := "ok"
			if p.Ambiguous {
				status = "**ambiguous**"
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", p.Name, strings.Join(p.Senders, ", "), status)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Virtual edges\n\n")
	if len(plan.VirtualEdges) == 0 {
		sb.WriteString("_None._\n\n")
	} else {
		sb.WriteString("| From | To | Portal | Type |\n|---|---|---|---|\n")
		for _, e := range plan.VirtualEdges {
			fmt.Fprintf(&sb, "| %s | %s | `%s` | %s |\n", e.From, e.To, e.Portal, e.Type.Normalize())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Diagnostics\n\n")
	if len(plan.Diagnostics) == 0 {
		sb.WriteString("_All receivers resolved._\n")
		return sb.String()
	}
	for _, d := range plan.Diagnostics {
		marker := "ℹ️"
		if d.Blocking() {
			marker = "⚠️"
		}
		fmt.Fprintf(&sb, "- %s **%s** %s\n", marker, d.Level, d.Message())
	}
	return sb.String()
}

// Summary returns a one-line colored summary of a plan.
func Summary(plan *domain.Plan) string {
	p := termenv.ColorProfile()

	edges := termenv.String(fmt.Sprintf("%d virtual edges", len(plan.VirtualEdges))).Foreground(p.Color("#22c55e"))
	blocking := len(plan.Blocking())
	warn := termenv.String(fmt.Sprintf("%d warnings", blocking))
	if blocking > 0 {
		warn = warn.Foreground(p.Color("#f59e0b")).Bold()
	}
	info := termenv.String(fmt.Sprintf("%d info", len(plan.Diagnostics)-blocking)).Faint()

	return fmt.Sprintf("%s, %s, %s", edges, warn, info)
}
