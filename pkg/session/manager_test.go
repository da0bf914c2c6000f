package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/portals/internal/resolver"
	"github.com/aretw0/portals/pkg/adapters/memory"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/dsl"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portalGraph(t *testing.T) *domain.Graph {
	t.Helper()
	b := dsl.New("flow")
	b.Node("1").Output("IMAGE", "IMAGE")
	b.Sender("2", "img").Input("value", domain.TypeAny)
	b.Receiver("3", "img").Output("value", "IMAGE")
	b.Link("1", 0, "2", 0)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func newManager(opts ...Option) (*Manager, *memory.Store) {
	store := memory.New()
	return NewManager(store, resolver.New(), opts...), store
}

func TestManager_PutAndPlan(t *testing.T) {
	mgr, store := newManager()
	ctx := context.Background()

	g := portalGraph(t)
	g.Edges = append(g.Edges, domain.Edge{
		From: domain.SlotRef{NodeID: "2", Slot: 0}, To: domain.SlotRef{NodeID: "3", Slot: 0}, Virtual: true,
	})

	plan, err := mgr.Put(ctx, g)
	require.NoError(t, err)
	assert.Len(t, plan.VirtualEdges, 1)
	assert.Empty(t, plan.Diagnostics)

	stored, err := store.Load(ctx, "flow")
	require.NoError(t, err)
	assert.Len(t, stored.Edges, 1, "virtual edges are never persisted")

	again, err := mgr.Plan(ctx, "flow")
	require.NoError(t, err)
	assert.Equal(t, plan, again)
}

func TestManager_PutRejectsInvalid(t *testing.T) {
	mgr, store := newManager()
	ctx := context.Background()

	_, err := mgr.Put(ctx, &domain.Graph{})
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	g := portalGraph(t)
	g.Edges = append(g.Edges, domain.Edge{From: domain.SlotRef{NodeID: "9"}, To: domain.SlotRef{NodeID: "2"}})
	_, err = mgr.Put(ctx, g)
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	ids, _ := store.List(ctx)
	assert.Empty(t, ids)
}

func TestManager_RenameReResolves(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()
	_, err := mgr.Put(ctx, portalGraph(t))
	require.NoError(t, err)

	plan, err := mgr.Rename(ctx, "flow", "3", "other")
	require.NoError(t, err)
	assert.Empty(t, plan.VirtualEdges)
	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, domain.FailureNoSender, plan.Diagnostics[0].Kind)

	plan, err = mgr.Rename(ctx, "flow", "2", "other")
	require.NoError(t, err)
	assert.Len(t, plan.VirtualEdges, 1)
	assert.Empty(t, plan.Diagnostics)

	_, err = mgr.Rename(ctx, "flow", "1", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)
	assert.ErrorContains(t, err, "not a portal node")

	_, err = mgr.Rename(ctx, "flow", "42", "x")
	assert.ErrorContains(t, err, "not found")
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	mgr, store := newManager()
	ctx := context.Background()
	_, err := mgr.Put(ctx, portalGraph(t))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = mgr.Update(ctx, "flow", func(g *domain.Graph) error {
		g.Nodes[1].PortalName = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = mgr.Update(ctx, "flow", func(g *domain.Graph) error {
		g.ID = "renamed"
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	stored, err := store.Load(ctx, "flow")
	require.NoError(t, err)
	assert.Equal(t, "img", stored.Nodes[1].PortalName)

	_, err = mgr.Update(ctx, "missing", func(g *domain.Graph) error { return nil })
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestManager_Delete(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()
	_, err := mgr.Put(ctx, portalGraph(t))
	require.NoError(t, err)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flow"}, ids)

	require.NoError(t, mgr.Delete(ctx, "flow"))
	_, err = mgr.Plan(ctx, "flow")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()
	_, err := mgr.Put(ctx, portalGraph(t))
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Update(ctx, "flow", func(g *domain.Graph) error {
				g.Name += "x"
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	g, err := mgr.Load(ctx, "flow")
	require.NoError(t, err)
	assert.Len(t, g.Name, n, "no edit is lost")
	assert.Empty(t, mgr.locks, "locks are released")
}

type recordingLocker struct {
	mu     sync.Mutex
	keys   []string
	ttls   []time.Duration
	unlock int
	fail   error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlock++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	mgr, _ := newManager(WithLocker(locker), WithLockTTL(5*time.Second))
	ctx := context.Background()

	_, err := mgr.Put(ctx, portalGraph(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"flow"}, locker.keys)
	assert.Equal(t, []time.Duration{5 * time.Second}, locker.ttls)
	assert.Equal(t, 1, locker.unlock)

	locker.fail = errors.New("redis down")
	_, err = mgr.Load(ctx, "flow")
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
