package resolver

import "github.com/aretw0/portals/pkg/domain"

// ListPortalNames returns the sorted names declared by active Senders of g.
// It is a pure read meant to back the host's portal selection list.
func (r *Resolver) ListPortalNames(g *domain.Graph) []string {
	names := r.BuildRegistry(g.Nodes).Names()
	if names == nil {
		names = []string{}
	}
	return names
}

// Choices returns the options a Receiver selector should offer: the declared
// names, or the first placeholder when nothing is declared.
func (r *Resolver) Choices(g *domain.Graph) []string {
	names := r.ListPortalNames(g)
	if len(names) == 0 && len(r.placeholders) > 0 {
		return []string{r.placeholders[0]}
	}
	return names
}

// UsedPortals returns the portals both declared by a Sender and requested by an
// active Receiver, sorted by name, with the value types offered on them.
func (r *Resolver) UsedPortals(g *domain.Graph) []domain.UsedPortal {
	nodes := inferSenderTypes(g)
	reg := r.BuildRegistry(nodes)

	requested := make(map[string]bool)
	senders := make(map[string]domain.Node)
	for _, n := range nodes {
		switch {
		case n.IsReceiver() && n.Active():
			if name := n.Name(); !r.IsPlaceholder(name) {
				requested[name] = true
			}
		case n.IsSender():
			senders[n.ID] = n
		}
	}

	used := make([]domain.UsedPortal, 0)
	for _, entry := range reg.Entries() {
		if !requested[entry.Name] {
			continue
		}
		seen := make(map[domain.TypeTag]bool)
		var types []domain.TypeTag
		for _, id := range entry.Senders {
			for _, s := range senders[id].Inputs {
				t := s.Type.Normalize()
				if !seen[t] {
					seen[t] = true
					types = append(types, t)
				}
			}
		}
		used = append(used, domain.UsedPortal{Name: entry.Name, Types: types})
	}
	return used
}
