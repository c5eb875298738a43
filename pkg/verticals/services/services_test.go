package services

import (
	"testing"

	"github.com/bher20/quotemanager/pkg/verticals"
)

func TestCatalog_Valid(t *testing.T) {
	cat := (&Vertical{}).Catalog()
	if err := cat.Validate(); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
	if len(cat.Bundles) != 1 {
		t.Errorf("expected 1 bundle, got %d", len(cat.Bundles))
	}
	if _, ok := cat.ActivityByID("gros-oeuvre"); ok {
		t.Errorf("services catalog must not carry construction trades")
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := verticals.Get(Key); !ok {
		t.Fatalf("vertical %s not registered", Key)
	}
}
