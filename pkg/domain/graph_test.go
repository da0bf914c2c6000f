package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIDs(t *testing.T) {
	assert.Equal(t, -1, CompareIDs("2", "10"), "numeric ids compare numerically")
	assert.Equal(t, 1, CompareIDs("b", "a"))
	assert.Equal(t, -1, CompareIDs("99", "a"), "numeric ids sort first")
	assert.Equal(t, 1, CompareIDs("a", "99"))
	assert.Equal(t, 0, CompareIDs("n1", "n1"))
}

func TestSortNodes_DoesNotMutate(t *testing.T) {
	nodes := []Node{{ID: "10"}, {ID: "2"}, {ID: "1"}}
	sorted := SortNodes(nodes)

	assert.Equal(t, []string{"1", "2", "10"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "10", nodes[0].ID)
}

func TestGraph_Persistable(t *testing.T) {
	g := &Graph{
		ID:    "g",
		Nodes: []Node{{ID: "1", Kind: KindSender, PortalName: "x", Inputs: []Slot{{Name: "value"}}}},
		Edges: []Edge{
			{From: SlotRef{"0", 0}, To: SlotRef{"1", 0}},
			{From: SlotRef{"1", 0}, To: SlotRef{"2", 0}, Virtual: true, Portal: "x"},
		},
	}

	p := g.Persistable()
	require.Len(t, p.Edges, 1)
	assert.False(t, p.Edges[0].Virtual)
	assert.Len(t, g.Edges, 2, "original graph keeps its edges")

	p.Nodes[0].Inputs[0].Name = "changed"
	assert.Equal(t, "value", g.Nodes[0].Inputs[0].Name, "clone is deep")
}

func TestGraph_Incoming_FirstWins(t *testing.T) {
	g := &Graph{Edges: []Edge{
		{From: SlotRef{"1", 0}, To: SlotRef{"3", 0}},
		{From: SlotRef{"2", 0}, To: SlotRef{"3", 0}},
		{From: SlotRef{"4", 0}, To: SlotRef{"3", 1}, Virtual: true},
	}}

	in := g.Incoming()
	assert.Equal(t, "1", in[SlotRef{"3", 0}].From.NodeID)
	_, ok := in[SlotRef{"3", 1}]
	assert.False(t, ok, "virtual edges are not indexed")
}

func TestCompareEdges_ExplicitFirst(t *testing.T) {
	edges := []Edge{
		{From: SlotRef{"1", 0}, To: SlotRef{"2", 0}, Virtual: true},
		{From: SlotRef{"1", 0}, To: SlotRef{"2", 0}},
		{From: SlotRef{"0", 1}, To: SlotRef{"5", 0}},
	}
	SortEdges(edges)

	assert.Equal(t, "0", edges[0].From.NodeID)
	assert.False(t, edges[1].Virtual)
	assert.True(t, edges[2].Virtual)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnDiagnostic: func(context.Context, *DiagnosticEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{OnDiagnostic: func(context.Context, *DiagnosticEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnDiagnostic(context.Background(), &DiagnosticEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnResolveStart)
}
