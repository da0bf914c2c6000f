package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleGraph returns a small portal graph with one virtual edge already attached,
// so stores can be checked for dropping it.
func SampleGraph(id string) *domain.Graph {
	return &domain.Graph{
		ID:   id,
		Name: "sample",
		Nodes: []domain.Node{
			{ID: "1", Kind: domain.KindOther, Outputs: []domain.Slot{{Name: "IMAGE", Type: "IMAGE"}}},
			{ID: "2", Kind: domain.KindSender, Class: domain.ClassSetPortal, PortalName: "img", Inputs: []domain.Slot{{Name: "value", Type: domain.TypeAny}}},
			{ID: "3", Kind: domain.KindReceiver, Class: domain.ClassGetPortal, PortalName: "img", Outputs: []domain.Slot{{Name: "value", Type: "IMAGE"}}},
		},
		Edges: []domain.Edge{
			{From: domain.SlotRef{NodeID: "1", Slot: 0}, To: domain.SlotRef{NodeID: "2", Slot: 0}, Type: "IMAGE"},
			{From: domain.SlotRef{NodeID: "2", Slot: 0}, To: domain.SlotRef{NodeID: "3", Slot: 0}, Type: "IMAGE", Virtual: true, Portal: "img"},
		},
	}
}

// GraphStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.GraphStore.
func GraphStoreContractTest(t *testing.T, store ports.GraphStore) {
	t.Helper()
	ctx := context.Background()
	graphID := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		g := SampleGraph(graphID)
		require.NoError(t, store.Save(ctx, g))

		loaded, err := store.Load(ctx, graphID)
		require.NoError(t, err)
		assert.Equal(t, graphID, loaded.ID)
		assert.Equal(t, "sample", loaded.Name)
		require.Len(t, loaded.Nodes, 3)
		assert.Equal(t, "img", loaded.Nodes[1].PortalName)
		assert.Equal(t, domain.KindReceiver, loaded.Nodes[2].Kind)
	})

	t.Run("Virtual Edges Are Not Persisted", func(t *testing.T) {
		loaded, err := store.Load(ctx, graphID)
		require.NoError(t, err)
		require.Len(t, loaded.Edges, 1)
		assert.False(t, loaded.Edges[0].Virtual)
	})

	t.Run("Save Does Not Alias Input", func(t *testing.T) {
		g := SampleGraph(graphID + "-alias")
		require.NoError(t, store.Save(ctx, g))
		defer func() { _ = store.Delete(ctx, g.ID) }()

		g.Nodes[1].PortalName = "mutated"
		loaded, err := store.Load(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "img", loaded.Nodes[1].PortalName)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+graphID)
		assert.ErrorIs(t, err, domain.ErrGraphNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := graphID + "-1"
		id2 := graphID + "-2"
		require.NoError(t, store.Save(ctx, SampleGraph(id1)))
		require.NoError(t, store.Save(ctx, SampleGraph(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
		assert.IsNonDecreasing(t, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, graphID))

		_, err := store.Load(ctx, graphID)
		assert.ErrorIs(t, err, domain.ErrGraphNotFound, "Load after Delete should return ErrGraphNotFound")

		assert.NoError(t, store.Delete(ctx, graphID), "Deleting twice should not fail")
	})
}
