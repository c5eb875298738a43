// Package verticals holds the built-in estimation catalogs, one per platform
// vertical. Subpackages register themselves from init; import them for side
// effects to make their catalogs available.
package verticals

import (
	"errors"
	"sort"
	"sync"

	"github.com/bher20/quotemanager/internal/catalog"
)

// Vertical is the interface every built-in vertical implements.
type Vertical interface {
	// Key returns the unique catalog key (e.g., "construction-idf").
	Key() string
	// Name returns the human-readable name of the vertical.
	Name() string
	// Catalog returns the vertical's reference data. Implementations
	// return the same value on every call.
	Catalog() *catalog.Catalog
}

// ErrVerticalNotFound is returned when no vertical is registered under a key.
var ErrVerticalNotFound = errors.New("vertical not found")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Vertical)
)

// Register registers a vertical.
func Register(v Vertical) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if v == nil {
		panic("verticals: Register vertical is nil")
	}
	if _, dup := registry[v.Key()]; dup {
		panic("verticals: Register called twice for vertical " + v.Key())
	}
	registry[v.Key()] = v
}

// Get returns a vertical by key.
func Get(key string) (Vertical, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	v, ok := registry[key]
	return v, ok
}

// List returns a sorted list of registered vertical keys.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var keys []string
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Catalogs returns the catalogs of all registered verticals, sorted by key.
func Catalogs() []*catalog.Catalog {
	keys := List()
	out := make([]*catalog.Catalog, 0, len(keys))
	for _, k := range keys {
		v, _ := Get(k)
		out = append(out, v.Catalog())
	}
	return out
}
