package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/portals/pkg/adapters/memory"
	"github.com/aretw0/portals/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.GraphStoreContractTest(t, memory.New())
}

func TestMemoryStore_Seeded(t *testing.T) {
	store := memory.New(tests.SampleGraph("a"), nil, tests.SampleGraph("b"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	g, err := store.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, g.Edges, 1, "seeded graphs drop virtual edges")
}

func TestMemoryStore_Concurrency(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, tests.SampleGraph("shared"))
			_, _ = store.Load(ctx, "shared")
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	_, err := store.Load(ctx, "shared")
	assert.NoError(t, err)
}
