package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/portals/internal/presentation/graph"
	"github.com/aretw0/portals/internal/resolver"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/dsl"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		build    func(b *dsl.Builder)
		withPlan bool
		contains []string
		excludes []string
	}{
		{
			name: "Node Shapes",
			build: func(b *dsl.Builder) {
				b.Node("1").Class("LoadImage")
				b.Sender("2", "img")
				b.Receiver("3", "img")
				b.Receiver("4", "")
			},
			contains: []string{
				`n_1["1 <br/> LoadImage"]`,
				`n_2>"2 <br/> set: img"]`,
				`n_3{{"3 <br/> get: img"}}`,
				`n_4{{"4 <br/> get: (unset)"}}`,
			},
		},
		{
			name: "ID Sanitization",
			build: func(b *dsl.Builder) {
				b.Node("path/to/file.md")
				b.Node("hyphen-ated")
			},
			contains: []string{
				`n_path_to_file_md["path/to/file.md"]`,
				`n_hyphen_ated["hyphen-ated"]`,
			},
		},
		{
			name: "Typed Explicit Edge",
			build: func(b *dsl.Builder) {
				b.Node("1").Output("IMAGE", "IMAGE")
				b.Node("2").Input("image", "IMAGE")
				b.Link("1", 0, "2", 0)
			},
			contains: []string{`n_1 -- "IMAGE" --> n_2`},
		},
		{
			name: "Virtual Edges Need A Plan",
			build: func(b *dsl.Builder) {
				b.Sender("1", "x").Input("v", "INT")
				b.Receiver("2", "x").Output("v", "INT")
			},
			excludes: []string{".->"},
		},
		{
			name: "Virtual Edge",
			build: func(b *dsl.Builder) {
				b.Sender("1", "x").Input("v", "INT")
				b.Receiver("2", "x").Output("v", "INT")
			},
			withPlan: true,
			contains: []string{`n_1 -. "x" .-> n_2`},
		},
		{
			name: "Diagnostics Overlay",
			build: func(b *dsl.Builder) {
				b.Receiver("1", "missing").Output("v", "INT")
				b.Receiver("2", "").Output("v", "INT")
				b.Sender("3", "muted").Input("v", "INT").Muted()
			},
			withPlan: true,
			contains: []string{
				"class n_1 warning;",
				"class n_2 info;",
				"class n_3 inactive;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dsl.New("g")
			tt.build(b)
			g := b.Graph()

			var plan *domain.Plan
			if tt.withPlan {
				plan = resolver.New().Plan(context.Background(), g)
			}

			got := graph.GenerateMermaid(g, plan)
			if !strings.HasPrefix(got, "graph LR\n") {
				t.Errorf("GenerateMermaid() missing header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
		})
	}
}

func TestGenerateMermaid_QuotesInLabels(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", `say "hi"`)
	got := graph.GenerateMermaid(b.Graph(), nil)
	if !strings.Contains(got, `set: say 'hi'`) {
		t.Errorf("quotes not escaped:\n%v", got)
	}
}
