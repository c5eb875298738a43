package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/selection"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Key:      "test",
		Currency: "EUR",
		Geographic: []catalog.GeographicUnit{
			{ID: "75", Code: "75", Name: "Paris", BasePrice: d("950"), BundleID: "pc"},
			{ID: "92", Code: "92", Name: "Hauts-de-Seine", BasePrice: d("950"), BundleID: "pc"},
			{ID: "93", Code: "93", Name: "Seine-Saint-Denis", BasePrice: d("950"), BundleID: "pc"},
			{ID: "94", Code: "94", Name: "Val-de-Marne", BasePrice: d("950"), BundleID: "pc"},
			{ID: "77", Code: "77", Name: "Seine-et-Marne", BasePrice: d("750"), BundleID: "gc"},
			{ID: "78", Code: "78", Name: "Yvelines", BasePrice: d("750"), BundleID: "gc"},
		},
		Activities: []catalog.ActivityUnit{
			{ID: "go", Name: "Gros oeuvre", BasePrice: d("450")},
			{ID: "elec", Name: "Electricite", BasePrice: d("300")},
		},
		Bundles: []catalog.Bundle{
			{ID: "pc", Name: "Petite couronne", Codes: []string{"75", "92", "93", "94"}},
			{ID: "gc", Name: "Grande couronne", Codes: []string{"77", "78"}},
		},
	}
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestEstimate_FullBundleMonthly(t *testing.T) {
	sel := selection.FromLists([]string{"75", "92", "93", "94"}, []string{"go"}, selection.Monthly)
	b := Estimate(sel, testCatalog())

	if b.ActivityMultiplier != 4 {
		t.Errorf("ActivityMultiplier = %d, want 4", b.ActivityMultiplier)
	}
	assertAmount(t, "GeographicSubtotal", b.GeographicSubtotal, "6840")
	assertAmount(t, "ActivitySubtotal", b.ActivitySubtotal, "1800")
	assertAmount(t, "BundleDiscount", b.BundleDiscount, "570")
	assertAmount(t, "TermDiscount", b.TermDiscount, "0")
	assertAmount(t, "Total", b.Total, "8070")
	if len(b.CompletedBundles) != 1 || b.CompletedBundles[0] != "pc" {
		t.Errorf("CompletedBundles = %v, want [pc]", b.CompletedBundles)
	}
}

func TestEstimate_FullBundleAnnual(t *testing.T) {
	sel := selection.FromLists([]string{"75", "92", "93", "94"}, []string{"go"}, selection.Annual)
	b := Estimate(sel, testCatalog())

	assertAmount(t, "Total", b.Total, "6859.5")
	assertAmount(t, "TermDiscount", b.TermDiscount, "1210.5")
	if !b.Total.Equal(b.Subtotal().Mul(AnnualFactor)) {
		t.Errorf("annual total must be exactly 0.85 of the subtotal")
	}
}

func TestEstimate_NoActivitiesIsZero(t *testing.T) {
	cat := testCatalog()
	for _, geo := range [][]string{nil, {"75"}, {"75", "92", "93", "94"}, {"75", "92", "93", "94", "77", "78"}} {
		for _, term := range []selection.BillingTerm{selection.Monthly, selection.Annual} {
			b := Estimate(selection.FromLists(geo, nil, term), cat)
			for name, v := range map[string]decimal.Decimal{
				"GeographicSubtotal": b.GeographicSubtotal,
				"ActivitySubtotal":   b.ActivitySubtotal,
				"BundleDiscount":     b.BundleDiscount,
				"TermDiscount":       b.TermDiscount,
				"Total":              b.Total,
			} {
				if !v.IsZero() {
					t.Errorf("geo=%v term=%s: %s = %s, want 0", geo, term, name, v)
				}
			}
			if len(b.Lines) != 0 {
				t.Errorf("geo=%v: expected no lines, got %d", geo, len(b.Lines))
			}
		}
	}
}

func TestEstimate_ActivityWithoutTerritoryKeepsBaseline(t *testing.T) {
	b := Estimate(selection.FromLists(nil, []string{"go"}, selection.Monthly), testCatalog())
	if b.ActivityMultiplier != 1 {
		t.Errorf("ActivityMultiplier = %d, want 1", b.ActivityMultiplier)
	}
	assertAmount(t, "Total", b.Total, "450")
}

func TestEstimate_PartialBundleEarnsNoDiscount(t *testing.T) {
	sel := selection.FromLists([]string{"75", "92", "93"}, []string{"go"}, selection.Monthly)
	b := Estimate(sel, testCatalog())
	assertAmount(t, "BundleDiscount", b.BundleDiscount, "0")
	if len(b.CompletedBundles) != 0 {
		t.Errorf("expected no completed bundles, got %v", b.CompletedBundles)
	}
	// 3 territories: geo = 3 x (950 x 3 x 0.2 + 950) = 3 x 1520; act = 450 x 3
	assertAmount(t, "Total", b.Total, "5910")
}

func TestEstimate_BundlesStack(t *testing.T) {
	sel := selection.FromLists([]string{"75", "92", "93", "94", "77", "78"}, []string{"go", "elec"}, selection.Monthly)
	b := Estimate(sel, testCatalog())

	if b.ActivityMultiplier != 6 || b.GeographicMultiplier != 2 {
		t.Fatalf("multipliers = %d/%d, want 6/2", b.ActivityMultiplier, b.GeographicMultiplier)
	}
	// factor 1.2: 4 x 950 x 2.2 + 2 x 750 x 2.2
	assertAmount(t, "GeographicSubtotal", b.GeographicSubtotal, "11660")
	assertAmount(t, "ActivitySubtotal", b.ActivitySubtotal, "4500")
	// 0.15 x 3800 + 0.15 x 1500
	assertAmount(t, "BundleDiscount", b.BundleDiscount, "795")
	assertAmount(t, "Total", b.Total, "15365")
	if len(b.CompletedBundles) != 2 {
		t.Errorf("CompletedBundles = %v, want both", b.CompletedBundles)
	}
}

func TestEstimate_UnknownReferencesContributeNothing(t *testing.T) {
	cat := testCatalog()
	clean := Estimate(selection.FromLists([]string{"75", "92", "93", "94"}, []string{"go"}, selection.Monthly), cat)
	dirty := Estimate(selection.FromLists([]string{"75", "92", "93", "94", "999"}, []string{"go", "ghost"}, selection.Monthly), cat)

	if !dirty.Total.Equal(clean.Total) {
		t.Fatalf("unknown references changed the total: %s vs %s", dirty.Total, clean.Total)
	}
	if dirty.ActivityMultiplier != 4 {
		t.Errorf("unknown code must not count toward multiplier, got %d", dirty.ActivityMultiplier)
	}
	want := map[string]bool{"geographic:999": true, "activity:ghost": true}
	if len(dirty.Unresolved) != len(want) {
		t.Fatalf("Unresolved = %v", dirty.Unresolved)
	}
	for _, u := range dirty.Unresolved {
		if !want[u] {
			t.Errorf("unexpected unresolved reference %q", u)
		}
	}
}

func TestEstimate_OnlyUnknownActivitiesIsZero(t *testing.T) {
	b := Estimate(selection.FromLists([]string{"75"}, []string{"ghost"}, selection.Monthly), testCatalog())
	if !b.Total.IsZero() {
		t.Fatalf("Total = %s, want 0", b.Total)
	}
}

func TestEstimate_EmptyCatalog(t *testing.T) {
	b := Estimate(selection.FromLists([]string{"75"}, []string{"go"}, selection.Annual), &catalog.Catalog{Key: "empty"})
	if !b.Total.IsZero() {
		t.Fatalf("Total = %s, want 0", b.Total)
	}
}

func TestEstimate_OrderIndependent(t *testing.T) {
	cat := testCatalog()
	orders := [][]string{
		{"75", "92", "93", "94", "77"},
		{"77", "94", "93", "92", "75"},
		{"93", "77", "75", "94", "92"},
	}
	var first *Breakdown
	for _, order := range orders {
		sel := selection.New()
		sel.ToggleActivity("elec")
		for _, code := range order {
			sel.ToggleGeographic(code)
		}
		sel.ToggleActivity("go")
		sel.ToggleGeographic("78")
		sel.ToggleGeographic("78")
		sel.SetBillingTerm(selection.Annual)

		b := Estimate(sel, cat)
		if first == nil {
			first = &b
			continue
		}
		if !b.Total.Equal(first.Total) || !b.BundleDiscount.Equal(first.BundleDiscount) {
			t.Fatalf("order %v: total %s, want %s", order, b.Total, first.Total)
		}
	}
}

func TestEstimate_TotalInvariant(t *testing.T) {
	cat := testCatalog()
	sels := []*selection.Selection{
		selection.FromLists([]string{"75"}, []string{"go"}, selection.Monthly),
		selection.FromLists([]string{"75", "92", "93", "94"}, []string{"go", "elec"}, selection.Annual),
		selection.FromLists([]string{"77", "78"}, []string{"elec"}, selection.Annual),
	}
	for _, sel := range sels {
		b := Estimate(sel, cat)
		want := b.GeographicSubtotal.Add(b.ActivitySubtotal).Sub(b.BundleDiscount)
		if sel.BillingTerm() == selection.Annual {
			want = want.Mul(AnnualFactor)
		}
		if !b.Total.Equal(want) {
			t.Errorf("total %s != %s", b.Total, want)
		}
		if b.Total.IsNegative() {
			t.Errorf("negative total %s", b.Total)
		}
	}
}

func TestEstimate_OverlappingBundlesNeverGoNegative(t *testing.T) {
	cat := &catalog.Catalog{
		Key:        "overlap",
		Geographic: []catalog.GeographicUnit{{ID: "75", Code: "75", BasePrice: d("950")}},
		Activities: []catalog.ActivityUnit{{ID: "free", BasePrice: d("0")}},
	}
	for _, id := range []string{"b0", "b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8"} {
		cat.Bundles = append(cat.Bundles, catalog.Bundle{ID: id, Codes: []string{"75"}})
	}

	for _, term := range []selection.BillingTerm{selection.Monthly, selection.Annual} {
		b := Estimate(selection.FromLists([]string{"75"}, []string{"free"}, term), cat)
		if b.Total.IsNegative() {
			t.Fatalf("%s: negative total %s", term, b.Total)
		}
		assertAmount(t, "GeographicSubtotal", b.GeographicSubtotal, "1140")
		assertAmount(t, "BundleDiscount", b.BundleDiscount, "142.5")
	}
}
