package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/selection"
)

// Summary is the frozen review snapshot. It never changes after Review
// returns it, whatever happens to the session afterwards.
type Summary struct {
	SessionID   string                `json:"session_id"`
	CatalogKey  string                `json:"catalog_key"`
	CatalogName string                `json:"catalog_name"`
	Currency    string                `json:"currency"`
	Geographic  []string              `json:"geographic"`
	Activities  []string              `json:"activities"`
	Term        selection.BillingTerm `json:"term"`
	Breakdown   pricing.Breakdown     `json:"breakdown"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// View is a point-in-time copy of a session for presentation.
type View struct {
	ID         string                `json:"id"`
	State      State                 `json:"state"`
	CatalogKey string                `json:"catalog_key"`
	Geographic []string              `json:"geographic"`
	Activities []string              `json:"activities"`
	Term       selection.BillingTerm `json:"term"`
	Breakdown  pricing.Breakdown     `json:"breakdown"`
	Summary    *Summary              `json:"summary,omitempty"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// Session owns one selection priced against one catalog. All methods are
// safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	id      string
	cat     *catalog.Catalog
	sel     *selection.Selection
	state   State
	live    pricing.Breakdown
	summary *Summary
	touched time.Time
	now     func() time.Time
}

// New starts an empty monthly session in the Editing state.
func New(id string, cat *catalog.Catalog) *Session {
	return newSession(id, cat, time.Now)
}

func newSession(id string, cat *catalog.Catalog, now func() time.Time) *Session {
	s := &Session{
		id:    id,
		cat:   cat,
		sel:   selection.New(),
		state: Editing,
		now:   now,
	}
	s.recompute()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session prices against.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Breakdown returns the live breakdown of the current selection.
func (s *Session) Breakdown() pricing.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// lastActivity is the time of the last call that touched the session.
func (s *Session) lastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// recompute must be called with mu held.
func (s *Session) recompute() {
	s.live = pricing.Estimate(s.sel, s.cat)
	s.touched = s.now()
	metrics.ObserveEstimate(s.cat.Key, string(s.sel.BillingTerm()), len(s.live.Unresolved))
}

// edit applies fn in Editing only. When fn fails the selection is left as
// it was and nothing is recomputed.
func (s *Session) edit(fn func() error) (pricing.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return pricing.Breakdown{}, ErrNotEditing
	}
	if err := fn(); err != nil {
		return pricing.Breakdown{}, err
	}
	s.recompute()
	return s.live, nil
}

// ToggleGeographic adds or removes a geographic code and returns the new breakdown.
func (s *Session) ToggleGeographic(code string) (pricing.Breakdown, error) {
	return s.edit(func() error {
		s.sel.ToggleGeographic(code)
		return nil
	})
}

// ToggleActivity adds or removes an activity and returns the new breakdown.
func (s *Session) ToggleActivity(id string) (pricing.Breakdown, error) {
	return s.edit(func() error {
		s.sel.ToggleActivity(id)
		return nil
	})
}

// ToggleBundle selects every member of the bundle, or clears them all when
// the bundle is already complete.
func (s *Session) ToggleBundle(bundleID string) (pricing.Breakdown, error) {
	return s.edit(func() error {
		b, ok := s.cat.BundleByID(bundleID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownBundle, bundleID)
		}
		s.sel.ToggleBundle(b)
		return nil
	})
}

// SetBillingTerm changes the billing term and returns the new breakdown.
func (s *Session) SetBillingTerm(term selection.BillingTerm) (pricing.Breakdown, error) {
	return s.edit(func() error {
		if !s.sel.SetBillingTerm(term) {
			return fmt.Errorf("%w %q", ErrInvalidTerm, term)
		}
		return nil
	})
}

// Review freezes the current selection and breakdown. It requires at least
// one geographic unit and one activity known to the catalog; otherwise it
// returns a *ValidationError and the session stays in Editing.
func (s *Session) Review() (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return nil, ErrNotEditing
	}

	verr := &ValidationError{MissingGeographic: true, MissingActivity: true}
	for _, code := range s.sel.GeographicCodes() {
		if _, ok := s.cat.GeographicByCode(code); ok {
			verr.MissingGeographic = false
			break
		}
	}
	for _, id := range s.sel.ActivityIDs() {
		if _, ok := s.cat.ActivityByID(id); ok {
			verr.MissingActivity = false
			break
		}
	}
	if verr.MissingGeographic || verr.MissingActivity {
		metrics.SessionReviewsBlockedTotal.Inc()
		return nil, verr
	}

	s.recompute()
	s.summary = &Summary{
		SessionID:   s.id,
		CatalogKey:  s.cat.Key,
		CatalogName: s.cat.Name,
		Currency:    s.cat.Currency,
		Geographic:  s.sel.GeographicCodes(),
		Activities:  s.sel.ActivityIDs(),
		Term:        s.sel.BillingTerm(),
		Breakdown:   cloneBreakdown(s.live),
		GeneratedAt: s.touched,
	}
	s.state = Reviewing
	metrics.SessionTransitionsTotal.WithLabelValues(string(Reviewing)).Inc()
	return cloneSummary(s.summary), nil
}

// Modify discards the review snapshot and returns to Editing.
func (s *Session) Modify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Reviewing {
		return ErrNotReviewing
	}
	s.summary = nil
	s.state = Editing
	s.touched = s.now()
	metrics.SessionTransitionsTotal.WithLabelValues(string(Editing)).Inc()
	return nil
}

// Submit confirms the reviewed summary. Submitted is terminal.
func (s *Session) Submit() (*Summary, error) {
	return s.submit(nil)
}

// submit runs commit against the frozen summary and only moves to
// Submitted when commit succeeds.
func (s *Session) submit(commit func(*Summary) error) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Reviewing {
		return nil, ErrNotReviewing
	}
	sum := cloneSummary(s.summary)
	if commit != nil {
		if err := commit(sum); err != nil {
			return nil, err
		}
	}
	s.state = Submitted
	s.touched = s.now()
	metrics.SessionTransitionsTotal.WithLabelValues(string(Submitted)).Inc()
	return sum, nil
}

// View returns a copy of the session for presentation.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		ID:         s.id,
		State:      s.state,
		CatalogKey: s.cat.Key,
		Geographic: s.sel.GeographicCodes(),
		Activities: s.sel.ActivityIDs(),
		Term:       s.sel.BillingTerm(),
		Breakdown:  cloneBreakdown(s.live),
		UpdatedAt:  s.touched,
	}
	if s.summary != nil {
		v.Summary = cloneSummary(s.summary)
	}
	return v
}

func cloneBreakdown(b pricing.Breakdown) pricing.Breakdown {
	b.Lines = append([]pricing.Line{}, b.Lines...)
	b.CompletedBundles = append([]string{}, b.CompletedBundles...)
	if b.Unresolved != nil {
		b.Unresolved = append([]string{}, b.Unresolved...)
	}
	return b
}

func cloneSummary(s *Summary) *Summary {
	if s == nil {
		return nil
	}
	c := *s
	c.Geographic = append([]string{}, s.Geographic...)
	c.Activities = append([]string{}, s.Activities...)
	c.Breakdown = cloneBreakdown(s.Breakdown)
	return &c
}
