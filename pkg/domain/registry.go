package domain

// RegistryEntry lists the active Senders declaring one portal name.
type RegistryEntry struct {
	Name string `json:"name" yaml:"name"`
	// Senders is ordered by identifier.
	Senders []string `json:"senders" yaml:"senders"`
	// Ambiguous is set when more than one Sender declares the name.
	Ambiguous bool `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
}

// Sender returns the single owning Sender, or false when the entry is ambiguous.
func (e RegistryEntry) Sender() (string, bool) {
	if e.Ambiguous || len(e.Senders) != 1 {
		return "", false
	}
	return e.Senders[0], true
}

// Registry maps portal names to the Senders declaring them within one pass.
// It is rebuilt on every pass and never persisted.
type Registry struct {
	entries map[string]RegistryEntry
	names   []string
}

// NewRegistry creates a registry from entries. Names must already be sorted.
func NewRegistry(entries []RegistryEntry) *Registry {
	r := &Registry{
		entries: make(map[string]RegistryEntry, len(entries)),
		names:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		r.entries[e.Name] = e
		r.names = append(r.names, e.Name)
	}
	return r
}

// Lookup returns the entry for an exact portal name.
func (r *Registry) Lookup(name string) (RegistryEntry, bool) {
	if r == nil {
		return RegistryEntry{}, false
	}
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the declared portal names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Entries returns every entry in name order.
func (r *Registry) Entries() []RegistryEntry {
	if r == nil {
		return nil
	}
	out := make([]RegistryEntry, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.entries[n])
	}
	return out
}

// Len returns the number of declared names.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
