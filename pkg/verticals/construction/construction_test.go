package construction

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/selection"
	"github.com/bher20/quotemanager/pkg/verticals"
)

func TestCatalog_Valid(t *testing.T) {
	v := &Vertical{}
	if err := v.Catalog().Validate(); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
	if v.Catalog() != v.Catalog() {
		t.Errorf("expected the same catalog instance on every call")
	}
}

func TestRegistered(t *testing.T) {
	v, ok := verticals.Get(Key)
	if !ok {
		t.Fatalf("vertical %s not registered", Key)
	}
	if v.Name() != "Construction Subscription Estimation" {
		t.Errorf("unexpected name: %q", v.Name())
	}
}

func TestEstimate_PetiteCouronne(t *testing.T) {
	cat := (&Vertical{}).Catalog()
	sel := selection.New()
	b, _ := cat.BundleByID("petite-couronne")
	sel.ToggleBundle(b)
	sel.ToggleActivity("gros-oeuvre")

	got := pricing.Estimate(sel, cat)
	if !got.Total.Equal(decimal.NewFromInt(8070)) {
		t.Errorf("unexpected monthly total: %s", got.Total)
	}

	sel.SetBillingTerm(selection.Annual)
	got = pricing.Estimate(sel, cat)
	if !got.Total.Equal(decimal.RequireFromString("6859.5")) {
		t.Errorf("unexpected annual total: %s", got.Total)
	}
}
