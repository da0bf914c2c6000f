package resolver

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(from string, fromSlot int, to string, toSlot int) domain.Edge {
	return domain.Edge{
		From: domain.SlotRef{NodeID: from, Slot: fromSlot},
		To:   domain.SlotRef{NodeID: to, Slot: toSlot},
	}
}

func TestPlan_ExactMatch(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("a", "INT").Input("b", "FLOAT")
	b.Receiver("2", "x").Output("a", "INT").Output("b", "FLOAT")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.Diagnostics)
	require.Len(t, plan.VirtualEdges, 2)
	for i, e := range plan.VirtualEdges {
		assert.Equal(t, domain.SlotRef{NodeID: "1", Slot: i}, e.From)
		assert.Equal(t, domain.SlotRef{NodeID: "2", Slot: i}, e.To)
		assert.True(t, e.Virtual)
		assert.Equal(t, "x", e.Portal)
	}
	assert.Equal(t, domain.TypeTag("INT"), plan.VirtualEdges[0].Type)
	assert.Equal(t, domain.TypeTag("FLOAT"), plan.VirtualEdges[1].Type)

	require.Len(t, plan.Resolutions, 1)
	assert.True(t, plan.Resolutions[0].Matched())
	assert.Equal(t, 2, plan.Resolutions[0].Arity)
}

func TestPlan_NoSender(t *testing.T) {
	b := dsl.New("g")
	b.Receiver("2", "ghost").Output("v", "INT")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.VirtualEdges)
	require.Len(t, plan.Diagnostics, 1)
	d := plan.Diagnostics[0]
	assert.Equal(t, domain.FailureNoSender, d.Kind)
	assert.Equal(t, "2", d.ReceiverID)
	assert.Equal(t, "ghost", d.PortalName)
	assert.Equal(t, domain.WholeNode, d.Slot)
	assert.Equal(t, domain.LevelWarning, d.Level)
}

func TestPlan_AmbiguousSenders(t *testing.T) {
	b := dsl.New("g")
	b.Sender("10", "x").Input("v", "INT")
	b.Sender("2", "x").Input("v", "INT")
	b.Receiver("3", "x").Output("v", "INT")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.VirtualEdges)
	require.Len(t, plan.Diagnostics, 1)
	d := plan.Diagnostics[0]
	assert.Equal(t, domain.FailureAmbiguousSenders, d.Kind)
	assert.Equal(t, []string{"2", "10"}, d.Senders, "conflicting senders are listed in id order")

	require.Len(t, plan.Portals, 1)
	assert.True(t, plan.Portals[0].Ambiguous)
}

func TestPlan_PlaceholderWithoutSenders(t *testing.T) {
	for _, name := range []string{"", "   ", domain.PlaceholderRefresh, domain.PlaceholderNoPortals, domain.PlaceholderTypeName} {
		t.Run(name, func(t *testing.T) {
			b := dsl.New("g")
			b.Receiver("1", name).Output("v", "INT")

			plan := New().Plan(context.Background(), b.Graph())

			require.Len(t, plan.Diagnostics, 1)
			assert.Equal(t, domain.FailurePlaceholderName, plan.Diagnostics[0].Kind)
			assert.Equal(t, domain.LevelInfo, plan.Diagnostics[0].Level)
			assert.False(t, plan.Diagnostics[0].Blocking())
		})
	}
}

func TestPlan_PlaceholderSenderNeverMatches(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", domain.PlaceholderNoPortals).Input("v", "INT")
	b.Receiver("2", domain.PlaceholderNoPortals).Output("v", "INT")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.Portals)
	assert.Empty(t, plan.VirtualEdges)
	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, domain.FailurePlaceholderName, plan.Diagnostics[0].Kind)
}

func TestPlan_ExcessReceiverSlots(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("a", "INT")
	b.Receiver("2", "x").Output("a", "INT").Output("b", "INT").Output("c", "INT")

	plan := New().Plan(context.Background(), b.Graph())

	require.Len(t, plan.VirtualEdges, 1)
	assert.Equal(t, 0, plan.VirtualEdges[0].To.Slot)

	require.Len(t, plan.Diagnostics, 2)
	for i, d := range plan.Diagnostics {
		assert.Equal(t, domain.FailureNoSender, d.Kind)
		assert.Equal(t, i+1, d.Slot)
		assert.Equal(t, "1", d.SenderID)
		assert.Contains(t, d.Message(), "has no slot")
	}
}

func TestPlan_ReceiverTakesSenderArity(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("a", "INT").Input("b", "MASK")
	b.Receiver("2", "x")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.Diagnostics)
	require.Len(t, plan.VirtualEdges, 2)
	assert.Equal(t, domain.TypeTag("MASK"), plan.VirtualEdges[1].Type)
	assert.Equal(t, 2, plan.Resolutions[0].Arity)
}

func TestPlan_FewerReceiverSlots(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("a", "INT").Input("b", "INT")
	b.Receiver("2", "x").Output("a", "INT")

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.Diagnostics)
	assert.Len(t, plan.VirtualEdges, 1)
}

func TestPlan_NamesAreTrimmedAndCaseSensitive(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "  Latent ").Input("v", "LATENT")
	b.Receiver("2", "Latent").Output("v", "LATENT")
	b.Receiver("3", "latent").Output("v", "LATENT")

	plan := New().Plan(context.Background(), b.Graph())

	require.Len(t, plan.VirtualEdges, 1)
	assert.Equal(t, "2", plan.VirtualEdges[0].To.NodeID)
	assert.Equal(t, "Latent", plan.VirtualEdges[0].Portal)
	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, "3", plan.Diagnostics[0].ReceiverID)
}

func TestPlan_InactiveNodes(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("v", "INT")
	b.Sender("2", "x").Input("v", "INT").Muted()
	b.Receiver("3", "x").Output("v", "INT")
	b.Receiver("4", "ghost").Output("v", "INT").Bypassed()

	plan := New().Plan(context.Background(), b.Graph())

	assert.Empty(t, plan.Diagnostics, "muted sender is not a conflict, bypassed receiver is skipped")
	require.Len(t, plan.VirtualEdges, 1)
	assert.Equal(t, "1", plan.VirtualEdges[0].From.NodeID)
	require.Len(t, plan.Resolutions, 1)
}

func TestPlan_Determinism(t *testing.T) {
	b := dsl.New("g")
	b.Sender("5", "a").Input("v", "INT")
	b.Sender("3", "b").Input("v", "INT")
	b.Sender("4", "b").Input("v", "INT")
	b.Receiver("12", "a").Output("v", "INT").Output("w", "INT")
	b.Receiver("2", "b").Output("v", "INT")
	b.Receiver("7", "").Output("v", "INT")
	b.Receiver("1", "a").Output("v", "INT")

	r := New()
	first := r.Plan(context.Background(), b.Graph())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Plan(context.Background(), b.Graph()))
	}

	ids := make([]string, 0, len(first.Resolutions))
	for _, res := range first.Resolutions {
		ids = append(ids, res.ReceiverID)
	}
	assert.Equal(t, []string{"1", "2", "7", "12"}, ids)
}

func TestPlan_DoesNotMutateInput(t *testing.T) {
	b := dsl.New("g")
	b.Node("1").Output("IMAGE", "IMAGE")
	b.Sender("2", "img").Input("v", domain.TypeAny)
	b.Receiver("3", "img").Output("v", domain.TypeAny)
	b.Link("1", 0, "2", 0)
	g := b.Graph()
	before := g.Clone()

	plan := New().Plan(context.Background(), g)

	assert.Equal(t, before, g)
	require.Len(t, plan.VirtualEdges, 1)
	assert.Equal(t, domain.TypeTag("IMAGE"), plan.VirtualEdges[0].Type, "sender type inferred from upstream")
}

func TestPlan_ReceiverTypeNarrowsWildcardSender(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "x").Input("v", domain.TypeAny)
	b.Receiver("2", "x").Output("v", "CONDITIONING")

	plan := New().Plan(context.Background(), b.Graph())

	require.Len(t, plan.VirtualEdges, 1)
	assert.Equal(t, domain.TypeTag("CONDITIONING"), plan.VirtualEdges[0].Type)
}

func TestBuildRegistry(t *testing.T) {
	nodes := []domain.Node{
		{ID: "3", Kind: domain.KindSender, PortalName: "b"},
		{ID: "1", Kind: domain.KindSender, PortalName: "a"},
		{ID: "2", Kind: domain.KindSender, PortalName: "b "},
		{ID: "4", Kind: domain.KindReceiver, PortalName: "c"},
		{ID: "5", Kind: domain.KindOther, PortalName: "d"},
	}

	reg := New().BuildRegistry(nodes)

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	a, ok := reg.Lookup("a")
	require.True(t, ok)
	id, ok := a.Sender()
	assert.True(t, ok)
	assert.Equal(t, "1", id)

	b, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.True(t, b.Ambiguous)
	assert.Equal(t, []string{"2", "3"}, b.Senders)
	_, ok = b.Sender()
	assert.False(t, ok)

	_, ok = reg.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, "3", nodes[0].ID, "input is not reordered")
}

func TestOptions_Placeholders(t *testing.T) {
	r := New(WithPlaceholders("  none ", "", "pick"), WithPlaceholderPrefix("_"))

	assert.Equal(t, []string{"none", "pick"}, r.Placeholders())
	assert.True(t, r.IsPlaceholder(""))
	assert.True(t, r.IsPlaceholder("none"))
	assert.True(t, r.IsPlaceholder("_anything"))
	assert.False(t, r.IsPlaceholder(domain.PlaceholderRefresh[1:]))
	assert.False(t, r.IsPlaceholder("x"))

	def := New()
	assert.True(t, def.IsPlaceholder(domain.PlaceholderTypeName))
	assert.False(t, def.IsPlaceholder("_custom"), "prefix rule is off by default")
}

func TestPlan_LogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, slog.LevelDebug, "text")

	b := dsl.New("logged")
	b.Receiver("1", "").Output("v", "INT")
	b.Receiver("2", "ghost").Output("v", "INT")

	New(WithLogger(logger)).Plan(context.Background(), b.Graph())

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "kind=placeholder_name")
	assert.Contains(t, out, "kind=no_sender")
	assert.Contains(t, out, "portal=ghost")
	assert.Contains(t, out, "graph_id=logged")
	assert.Contains(t, out, "Resolution pass complete")
}

func TestPlan_Hooks(t *testing.T) {
	var starts, ends int
	var diags []domain.Diagnostic
	var endEvent *domain.ResolveEvent

	hooks := domain.LifecycleHooks{
		OnResolveStart: func(ctx context.Context, e *domain.ResolveEvent) {
			starts++
			assert.Equal(t, domain.EventResolveStart, e.Type)
		},
		OnResolveEnd: func(ctx context.Context, e *domain.ResolveEvent) {
			ends++
			endEvent = e
		},
		OnDiagnostic: func(ctx context.Context, e *domain.DiagnosticEvent) {
			diags = append(diags, e.Diagnostic)
		},
	}

	b := dsl.New("hooked")
	b.Sender("1", "x").Input("v", "INT")
	b.Receiver("2", "x").Output("v", "INT")
	b.Receiver("3", "y").Output("v", "INT")

	New(WithLifecycleHooks(hooks)).Plan(context.Background(), b.Graph())

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	require.Len(t, diags, 1)
	assert.Equal(t, "3", diags[0].ReceiverID)
	require.NotNil(t, endEvent)
	assert.Equal(t, "hooked", endEvent.GraphID)
	assert.Equal(t, 3, endEvent.Nodes)
	assert.Equal(t, 1, endEvent.Portals)
	assert.Equal(t, 1, endEvent.VirtualEdges)
	assert.Equal(t, 1, endEvent.Diagnostics)
}

func TestMaterialize_Empty(t *testing.T) {
	edges, diags := Materialize(nil)
	assert.NotNil(t, edges)
	assert.NotNil(t, diags)
	assert.Empty(t, edges)
	assert.Empty(t, diags)
}
