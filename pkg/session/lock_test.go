package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/portals/internal/resolver"
	"github.com/aretw0/portals/pkg/domain"
)

// nopStore accepts everything and stores nothing.
type nopStore struct{}

func (nopStore) Save(ctx context.Context, g *domain.Graph) error { return nil }
func (nopStore) Load(ctx context.Context, id string) (*domain.Graph, error) {
	return &domain.Graph{ID: id}, nil
}
func (nopStore) Delete(ctx context.Context, id string) error  { return nil }
func (nopStore) List(ctx context.Context) ([]string, error) { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{}, resolver.New())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("graph-%d", i)
		_, _ = mgr.Put(ctx, &domain.Graph{ID: id})
		_ = mgr.Delete(ctx, id)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
