package registry

import (
	"slices"
	"sync"

	"github.com/aretw0/portals/pkg/domain"
)

// ClassInfo describes how a host node class takes part in portal resolution.
type ClassInfo struct {
	// Class is the host class name, e.g. "SetNamedPortal".
	Class string
	Kind  domain.NodeKind

	DisplayName string
	Category    string

	// NameWidget is the index of the portal name in the node's widget values.
	NameWidget int
}

// Registry maps host node classes to their portal role.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]ClassInfo
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]ClassInfo),
	}
}

// Default returns a registry holding the standard portal classes.
func Default() *Registry {
	r := NewRegistry()
	r.Register(ClassInfo{
		Class:       domain.ClassSetPortal,
		Kind:        domain.KindSender,
		DisplayName: "Set Named Portal (Input)",
		Category:    "Utils/Portals",
	})
	r.Register(ClassInfo{
		Class:       domain.ClassGetPortal,
		Kind:        domain.KindReceiver,
		DisplayName: "Get Named Portal (Output)",
		Category:    "Utils/Portals",
	})
	return r
}

// Register adds a class to the registry.
// If a class with the same name exists, it is overwritten.
func (r *Registry) Register(info ClassInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[info.Class] = info
}

// Lookup returns the info registered for class.
func (r *Registry) Lookup(class string) (ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.classes[class]
	return info, ok
}

// KindOf returns the node kind of class, KindOther when unknown.
func (r *Registry) KindOf(class string) domain.NodeKind {
	if info, ok := r.Lookup(class); ok {
		return info.Kind
	}
	return domain.KindOther
}

// Classes returns every registered class sorted by name.
func (r *Registry) Classes() []ClassInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ClassInfo, 0, len(r.classes))
	for _, info := range r.classes {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b ClassInfo) int {
		switch {
		case a.Class < b.Class:
			return -1
		case a.Class > b.Class:
			return 1
		}
		return 0
	})
	return out
}
