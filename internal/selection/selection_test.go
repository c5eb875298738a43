package selection

import (
	"reflect"
	"testing"

	"github.com/bher20/quotemanager/internal/catalog"
)

func TestToggleTwiceRestoresState(t *testing.T) {
	s := FromLists([]string{"75"}, []string{"gros-oeuvre"}, Annual)
	before := s.Clone()

	s.ToggleGeographic("92")
	s.ToggleGeographic("92")
	s.ToggleGeographic("75")
	s.ToggleGeographic("75")
	s.ToggleActivity("plomberie")
	s.ToggleActivity("plomberie")

	if !s.Equal(before) {
		t.Fatalf("expected selection to be restored, got geo=%v act=%v", s.GeographicCodes(), s.ActivityIDs())
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatalf("expected deep equality after double toggles")
	}
}

func TestToggleReportsMembership(t *testing.T) {
	s := New()
	if !s.ToggleGeographic("75") {
		t.Errorf("first toggle should select")
	}
	if s.ToggleGeographic("75") {
		t.Errorf("second toggle should deselect")
	}
	if !s.ToggleActivity("a") || !s.HasActivity("a") {
		t.Errorf("expected activity to be selected")
	}
}

func TestToggleBundle(t *testing.T) {
	b := catalog.Bundle{ID: "pc", Codes: []string{"75", "92", "93", "94"}}

	t.Run("incomplete adds only missing members", func(t *testing.T) {
		s := FromLists([]string{"75", "77"}, nil, Monthly)
		if complete := s.ToggleBundle(b); !complete {
			t.Fatalf("expected bundle to be complete after toggle")
		}
		want := []string{"75", "77", "92", "93", "94"}
		if got := s.GeographicCodes(); !reflect.DeepEqual(got, want) {
			t.Fatalf("geo = %v, want %v", got, want)
		}
	})

	t.Run("complete removes exactly the members", func(t *testing.T) {
		s := FromLists([]string{"75", "77", "92", "93", "94"}, []string{"x"}, Monthly)
		if complete := s.ToggleBundle(b); complete {
			t.Fatalf("expected bundle to be removed")
		}
		want := []string{"77"}
		if got := s.GeographicCodes(); !reflect.DeepEqual(got, want) {
			t.Fatalf("geo = %v, want %v", got, want)
		}
		if !s.HasActivity("x") {
			t.Errorf("bundle toggle must not touch activities")
		}
	})

	t.Run("double toggle from empty restores state", func(t *testing.T) {
		s := New()
		before := s.Clone()
		s.ToggleBundle(b)
		s.ToggleBundle(b)
		if !s.Equal(before) {
			t.Fatalf("expected empty selection, got %v", s.GeographicCodes())
		}
	})

	t.Run("empty bundle is a no-op", func(t *testing.T) {
		s := New()
		if s.ToggleBundle(catalog.Bundle{ID: "empty"}) {
			t.Fatalf("empty bundle must never be complete")
		}
		if len(s.GeographicCodes()) != 0 {
			t.Fatalf("empty bundle must not change selection")
		}
	})
}

func TestSameSetDifferentOrderIsEqual(t *testing.T) {
	a := New()
	for _, c := range []string{"75", "92", "93"} {
		a.ToggleGeographic(c)
	}
	b := New()
	for _, c := range []string{"93", "75", "94", "92", "94"} {
		b.ToggleGeographic(c)
	}
	if !a.Equal(b) {
		t.Fatalf("expected equal selections: %v vs %v", a.GeographicCodes(), b.GeographicCodes())
	}
}

func TestParseBillingTerm(t *testing.T) {
	cases := map[string]BillingTerm{"monthly": Monthly, "ANNUAL": Annual, " Annual ": Annual}
	for in, want := range cases {
		got, err := ParseBillingTerm(in)
		if err != nil {
			t.Fatalf("ParseBillingTerm(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseBillingTerm(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseBillingTerm("weekly"); err == nil {
		t.Fatalf("expected error for unknown term")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := FromLists([]string{"75"}, []string{"a"}, Monthly)
	c := s.Clone()
	c.ToggleGeographic("92")
	c.SetBillingTerm(Annual)
	if s.HasGeographic("92") || s.BillingTerm() != Monthly {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestUnknownTermIsIgnored(t *testing.T) {
	s := New()
	if s.SetBillingTerm(BillingTerm("weekly")) {
		t.Fatalf("SetBillingTerm accepted an unknown term")
	}
	if s.BillingTerm() != Monthly {
		t.Errorf("term = %q, want monthly", s.BillingTerm())
	}
	if !s.SetBillingTerm(Annual) || s.BillingTerm() != Annual {
		t.Errorf("SetBillingTerm(Annual) did not apply")
	}

	if got := FromLists(nil, nil, BillingTerm("weekly")).BillingTerm(); got != Monthly {
		t.Errorf("FromLists with unknown term = %q, want monthly", got)
	}
	if got := FromLists(nil, nil, Annual).BillingTerm(); got != Annual {
		t.Errorf("FromLists with annual = %q", got)
	}
}
