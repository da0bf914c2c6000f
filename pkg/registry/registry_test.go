package registry

import (
	"sync"
	"testing"

	"github.com/aretw0/portals/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()

	set, ok := r.Lookup(domain.ClassSetPortal)
	require.True(t, ok)
	assert.Equal(t, domain.KindSender, set.Kind)
	assert.Equal(t, "Set Named Portal (Input)", set.DisplayName)
	assert.Equal(t, 0, set.NameWidget)

	assert.Equal(t, domain.KindReceiver, r.KindOf(domain.ClassGetPortal))
	assert.Equal(t, domain.KindOther, r.KindOf("KSampler"))

	classes := r.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, domain.ClassGetPortal, classes[0].Class)
}

func TestRegister_Overwrites(t *testing.T) {
	r := NewRegistry()
	r.Register(ClassInfo{Class: "SetNode", Kind: domain.KindOther})
	r.Register(ClassInfo{Class: "SetNode", Kind: domain.KindSender, NameWidget: 1})

	info, ok := r.Lookup("SetNode")
	require.True(t, ok)
	assert.Equal(t, domain.KindSender, info.Kind)
	assert.Equal(t, 1, info.NameWidget)
}

func TestRegistry_Concurrency(t *testing.T) {
	r := Default()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(ClassInfo{Class: "Custom", Kind: domain.KindReceiver})
		}()
		go func() {
			defer wg.Done()
			_ = r.KindOf("Custom")
			_ = r.Classes()
		}()
	}
	wg.Wait()
	assert.Equal(t, domain.KindReceiver, r.KindOf("Custom"))
}
