package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/portals/internal/testutils"
	"github.com/aretw0/portals/pkg/adapters/file"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	tests.GraphStoreContractTest(t, file.New(t.TempDir()))
}

func TestFileStore_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, store.Save(context.Background(), tests.SampleGraph("flow")))

	data, err := os.ReadFile(filepath.Join(dir, "flow.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "portal_name: img")
	assert.NotContains(t, string(data), "virtual")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStore_ReadsHandWrittenJSON(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "nested/hand.json", `{
  "nodes": [
    {"id": "1", "kind": "sender", "portal_name": "x", "inputs": [{"name": "v", "type": "INT"}]},
    {"id": "2", "kind": "receiver", "portal_name": "x"}
  ]
}`)
	testutils.WriteFile(t, dir, "notes.txt", "ignored")

	store := file.New(dir)
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/hand"}, ids)

	g, err := store.Load(context.Background(), "nested/hand")
	require.NoError(t, err)
	assert.Equal(t, "nested/hand", g.ID)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, domain.KindReceiver, g.Nodes[1].Kind)
}

func TestFileStore_RejectsEscapingIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, tests.SampleGraph("../outside")))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "/abs"))
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadGraph(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, dir, "upscale.yml", `
nodes:
  - id: "1"
    kind: sender
    portal_name: img
    mode: 4
edges: []
`)

	g, err := file.ReadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, "upscale", g.ID, "ID falls back to the file name")
	assert.Equal(t, domain.ModeBypass, g.Nodes[0].Mode)

	_, err = file.ReadGraph(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)

	bad := testutils.WriteFile(t, dir, "bad.json", "{")
	_, err = file.ReadGraph(bad)
	assert.Error(t, err)
}

func TestEncode_DropsVirtualEdges(t *testing.T) {
	g := tests.SampleGraph("g")

	for _, format := range []file.Format{file.FormatJSON, file.FormatYAML} {
		data, err := file.Encode(g, format)
		require.NoError(t, err)

		back, err := file.Decode(data, format)
		require.NoError(t, err)
		assert.Len(t, back.Edges, 1, string(format))
	}
	assert.Len(t, g.Edges, 2, "input is untouched")
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, file.FormatYAML, file.FormatOf("a.YML"))
	assert.Equal(t, file.FormatYAML, file.FormatOf("dir/a.yaml"))
	assert.Equal(t, file.FormatJSON, file.FormatOf("a.json"))
	assert.Equal(t, file.FormatJSON, file.FormatOf("a"))
}
