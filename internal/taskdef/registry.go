package taskdef

import (
	"sort"
	"sync"
)

// Registry holds the set of root definitions active in the current process.
//
// Revival callers pass Registry.All() as the active definition set; any
// persisted snapshot whose name is not registered is treated as abandoned
// work.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Definition
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Definition{}}
}

// Register adds a root definition. Non-root definitions and duplicate names
// are rejected.
func (r *Registry) Register(d *Definition) error {
	if d == nil {
		return invalidf("nil definition")
	}
	if d.parent != nil {
		return invalidf("only root definitions can be registered (%q has a parent)", d.name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.name]; exists {
		return invalidf("duplicate task definition name: %q", d.name)
	}
	r.byName[d.name] = d
	return nil
}

// Lookup returns the registered root definition with the given name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byName[name]
	return d, ok
}

// All returns the registered root definitions.
//
// Determinism: the returned slice is sorted by name.
func (r *Registry) All() []*Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Definition, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
