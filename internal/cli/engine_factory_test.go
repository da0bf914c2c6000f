package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/internal/testutils"
	"github.com/aretw0/portals/pkg/adapters/file"
	"github.com/aretw0/portals/pkg/adapters/memory"
	"github.com/aretw0/portals/pkg/adapters/redis"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upscaleDoc = `id: upscale
nodes:
  - id: 1
    class: LoadImage
    outputs:
      - {name: IMAGE, type: IMAGE}
  - id: 2
    class: SetNamedPortal
    portal: img
    inputs:
      - {name: value, type: "*"}
  - id: 3
    class: GetNamedPortal
    portal: img
    outputs:
      - {name: value, type: "*"}
edges:
  - {from: "1:0", to: "2:0", type: IMAGE}
`

func portalGraph(id string) *domain.Graph {
	b := dsl.New(id)
	b.Node("1").Output("IMAGE", "IMAGE")
	b.Sender("2", "img").Input("value", domain.TypeAny)
	b.Receiver("3", "img").Output("value", domain.TypeAny)
	b.Receiver("4", "mask").Output("value", "MASK")
	b.Node("5").Input("images", "IMAGE")
	b.Link("1", 0, "2", 0).Link("3", 0, "5", 0)
	return b.Graph()
}

func TestCreateEngine_Loam(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.SaveGraphDoc(t, repo, "upscale", upscaleDoc)

	eng, err := CreateEngine(Options{Dir: dir}, logging.NewNop(), domain.LifecycleHooks{}, nil)
	require.NoError(t, err)

	plan, err := eng.PlanByID(context.Background(), "upscale")
	require.NoError(t, err)
	assert.Len(t, plan.VirtualEdges, 1)
}

func TestCreateEngine_FileStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, file.New(dir).Save(context.Background(), portalGraph("wf")))

	eng, err := CreateEngine(Options{Dir: dir, Store: StoreFile}, logging.NewNop(), domain.LifecycleHooks{}, nil)
	require.NoError(t, err)

	ids, err := eng.ListGraphs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wf"}, ids)
}

func TestCreateEngine_Placeholders(t *testing.T) {
	opts := Options{Placeholders: []string{"none"}, PlaceholderPrefix: "~"}
	eng, err := CreateEngine(opts, logging.NewNop(), domain.LifecycleHooks{}, memory.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"none"}, eng.Placeholders())

	b := dsl.New("g")
	b.Receiver("1", "~draft").Output("v", "INT")
	plan := eng.Plan(context.Background(), b.Graph())
	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, domain.FailurePlaceholderName, plan.Diagnostics[0].Kind)
}

func TestCreateEngine_HooksAndDebugLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, logging.ParseLevel("debug"), "text")

	var passes int
	hooks := domain.LifecycleHooks{
		OnResolveEnd: func(ctx context.Context, e *domain.ResolveEvent) { passes++ },
	}
	eng, err := CreateEngine(Options{}, logger, hooks, memory.New())
	require.NoError(t, err)

	eng.Plan(context.Background(), portalGraph("g"))

	assert.Equal(t, 1, passes)
	assert.Contains(t, buf.String(), "Resolve End")
}

func TestOpenStore(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		store, locker, err := OpenStore(Options{Store: StoreFile, Dir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, store)
		assert.Nil(t, locker)
	})

	t.Run("Memory", func(t *testing.T) {
		store, _, err := OpenStore(Options{Store: StoreMemory})
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, locker, err := OpenStore(Options{Store: StoreRedis, RedisURL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.IsType(t, &redis.Locker{}, locker)

		require.NoError(t, store.Save(context.Background(), portalGraph("r")))
		assert.True(t, mr.Exists(redis.DefaultPrefix+"r"))
	})

	t.Run("Loam Is Read Only", func(t *testing.T) {
		_, _, err := OpenStore(Options{Store: StoreLoam})
		assert.Error(t, err)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := OpenStore(Options{Store: "s3"})
		assert.ErrorContains(t, err, "unknown store")
	})
}

func TestMirror(t *testing.T) {
	src := memory.New(portalGraph("a"), portalGraph("b"))

	store, err := mirror(context.Background(), src, logging.NewNop())
	require.NoError(t, err)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}
