// Package selection holds the user's chosen geographic units, activities and
// billing term for one estimation session.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bher20/quotemanager/internal/catalog"
)

// BillingTerm is the billing cycle of a subscription.
type BillingTerm string

const (
	Monthly BillingTerm = "monthly"
	Annual  BillingTerm = "annual"
)

// ParseBillingTerm accepts "monthly" or "annual" in any case.
func ParseBillingTerm(s string) (BillingTerm, error) {
	switch BillingTerm(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Annual:
		return Annual, nil
	default:
		return "", fmt.Errorf("unknown billing term %q", s)
	}
}

// Valid reports whether t is Monthly or Annual.
func (t BillingTerm) Valid() bool { return t == Monthly || t == Annual }

// Selection is a set of geographic codes and activity ids plus a term. The
// zero value is not usable; call New.
type Selection struct {
	geographic map[string]struct{}
	activities map[string]struct{}
	term       BillingTerm
}

// New returns an empty monthly selection.
func New() *Selection {
	return &Selection{
		geographic: make(map[string]struct{}),
		activities: make(map[string]struct{}),
		term:       Monthly,
	}
}

// ToggleGeographic adds code if absent and removes it otherwise. It reports
// whether the code is selected afterwards.
func (s *Selection) ToggleGeographic(code string) bool {
	return toggle(s.geographic, code)
}

// ToggleActivity adds id if absent and removes it otherwise. It reports
// whether the activity is selected afterwards.
func (s *Selection) ToggleActivity(id string) bool {
	return toggle(s.activities, id)
}

func toggle(set map[string]struct{}, key string) bool {
	if _, ok := set[key]; ok {
		delete(set, key)
		return false
	}
	set[key] = struct{}{}
	return true
}

// ToggleBundle removes every member of b when the bundle is complete and
// adds the missing members otherwise. It reports whether the bundle is
// complete afterwards.
func (s *Selection) ToggleBundle(b catalog.Bundle) bool {
	if len(b.Codes) == 0 {
		return false
	}
	if s.IsBundleComplete(b) {
		for _, code := range b.Codes {
			delete(s.geographic, code)
		}
		return false
	}
	for _, code := range b.Codes {
		s.geographic[code] = struct{}{}
	}
	return true
}

// IsBundleComplete reports whether every member code of b is selected.
// An empty bundle is never complete.
func (s *Selection) IsBundleComplete(b catalog.Bundle) bool {
	if len(b.Codes) == 0 {
		return false
	}
	for _, code := range b.Codes {
		if _, ok := s.geographic[code]; !ok {
			return false
		}
	}
	return true
}

// SetBillingTerm sets the billing cycle. Values other than Monthly and
// Annual leave the term unchanged and report false; parse user input with
// ParseBillingTerm first.
func (s *Selection) SetBillingTerm(term BillingTerm) bool {
	if !term.Valid() {
		return false
	}
	s.term = term
	return true
}

// BillingTerm returns the billing cycle.
func (s *Selection) BillingTerm() BillingTerm { return s.term }

// HasGeographic reports whether code is selected.
func (s *Selection) HasGeographic(code string) bool {
	_, ok := s.geographic[code]
	return ok
}

// HasActivity reports whether the activity id is selected.
func (s *Selection) HasActivity(id string) bool {
	_, ok := s.activities[id]
	return ok
}

// GeographicCodes returns the selected codes in sorted order.
func (s *Selection) GeographicCodes() []string { return sortedKeys(s.geographic) }

// ActivityIDs returns the selected activity ids in sorted order.
func (s *Selection) ActivityIDs() []string { return sortedKeys(s.activities) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	c := New()
	for k := range s.geographic {
		c.geographic[k] = struct{}{}
	}
	for k := range s.activities {
		c.activities[k] = struct{}{}
	}
	c.term = s.term
	return c
}

// Equal reports whether both selections hold the same sets and term.
func (s *Selection) Equal(o *Selection) bool {
	if s.term != o.term || len(s.geographic) != len(o.geographic) || len(s.activities) != len(o.activities) {
		return false
	}
	for k := range s.geographic {
		if _, ok := o.geographic[k]; !ok {
			return false
		}
	}
	for k := range s.activities {
		if _, ok := o.activities[k]; !ok {
			return false
		}
	}
	return true
}

// FromLists builds a selection from explicit lists. Duplicates collapse and
// an empty or unknown term falls back to Monthly.
func FromLists(geographic, activities []string, term BillingTerm) *Selection {
	s := New()
	for _, code := range geographic {
		s.geographic[code] = struct{}{}
	}
	for _, id := range activities {
		s.activities[id] = struct{}{}
	}
	s.SetBillingTerm(term)
	return s
}
