package verticals_test

import (
	"testing"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/pkg/verticals"
	_ "github.com/bher20/quotemanager/pkg/verticals/construction"
	_ "github.com/bher20/quotemanager/pkg/verticals/services"
)

type stub struct{ key string }

func (s stub) Key() string               { return s.key }
func (s stub) Name() string              { return s.key }
func (s stub) Catalog() *catalog.Catalog { return &catalog.Catalog{Key: s.key} }

func TestList_Sorted(t *testing.T) {
	keys := verticals.List()
	if len(keys) < 2 {
		t.Fatalf("expected built-in verticals, got %v", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
	cats := verticals.Catalogs()
	if len(cats) != len(keys) {
		t.Fatalf("Catalogs() returned %d, want %d", len(cats), len(keys))
	}
	for i, c := range cats {
		if c.Key != keys[i] {
			t.Errorf("catalog %d key = %q, want %q", i, c.Key, keys[i])
		}
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	verticals.Register(stub{key: "zz-dup-test"})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	verticals.Register(stub{key: "zz-dup-test"})
}
