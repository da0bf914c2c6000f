package resolver

import (
	"slices"

	"github.com/aretw0/portals/pkg/domain"
)

// BuildRegistry groups the active Senders of nodes by portal name.
// Names are trimmed and matched exactly. Placeholder names never enter the registry.
// A name declared by two or more Senders is marked ambiguous rather than picking one.
func (r *Resolver) BuildRegistry(nodes []domain.Node) *domain.Registry {
	groups := make(map[string][]string)
	for _, n := range domain.SortNodes(nodes) {
		if !n.IsSender() || !n.Active() {
			continue
		}
		name := n.Name()
		if r.IsPlaceholder(name) {
			continue
		}
		groups[name] = append(groups[name], n.ID)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]domain.RegistryEntry, 0, len(names))
	for _, name := range names {
		senders := groups[name]
		entries = append(entries, domain.RegistryEntry{
			Name:      name,
			Senders:   senders,
			Ambiguous: len(senders) > 1,
		})
	}
	return domain.NewRegistry(entries)
}
