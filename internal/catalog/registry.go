package catalog

import (
	"sort"
	"sync"
)

// Registry holds the catalogs available to estimations, keyed by Catalog.Key.
// Registered catalogs are shared read-only between sessions.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewRegistry returns a registry seeded with the given catalogs.
func NewRegistry(cats ...*Catalog) *Registry {
	r := &Registry{catalogs: make(map[string]*Catalog, len(cats))}
	for _, c := range cats {
		r.catalogs[c.Key] = c
	}
	return r
}

// Get returns the catalog registered under key.
func (r *Registry) Get(key string) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.catalogs[key]
	return c, ok
}

// List returns all catalogs sorted by key.
func (r *Registry) List() []*Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Catalog, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Put registers or replaces a single catalog.
func (r *Registry) Put(c *Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[c.Key] = c
}

// Replace swaps the whole registry content in one step.
func (r *Registry) Replace(cats []*Catalog) {
	next := make(map[string]*Catalog, len(cats))
	for _, c := range cats {
		next[c.Key] = c
	}
	r.mu.Lock()
	r.catalogs = next
	r.mu.Unlock()
}
