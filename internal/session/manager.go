package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/storage"
)

// DefaultTTL is how long an idle session is kept before Sweep evicts it.
const DefaultTTL = 30 * time.Minute

// CatalogSource resolves catalogs by key.
type CatalogSource interface {
	Get(key string) (*catalog.Catalog, error)
}

// SubmissionSink receives confirmed quotes. storage.Storage satisfies it.
type SubmissionSink interface {
	SaveSubmission(ctx context.Context, sub storage.Submission) error
}

// Notifier is told about a submission once it has been stored.
type Notifier interface {
	NotifySubmission(ctx context.Context, sub storage.Submission) error
}

// Contact identifies who confirmed a quote.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Option configures a Manager.
type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithSink(sink SubmissionSink) Option {
	return func(m *Manager) { m.sink = sink }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager holds the in-memory sessions of a server process. Sessions are
// never persisted; a restart drops them.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalogs CatalogSource
	sink     SubmissionSink
	notifier Notifier
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(catalogs CatalogSource, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		catalogs: catalogs,
		ttl:      DefaultTTL,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session against the catalog registered under catalogKey.
func (m *Manager) Create(catalogKey string) (*Session, error) {
	cat, err := m.catalogs.Get(catalogKey)
	if err != nil {
		return nil, err
	}
	s := newSession(uuid.NewString(), cat, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	m.log.Debug("session created", zap.String("session", s.id), zap.String("catalog", cat.Key))
	return s, nil
}

// Get returns a live session or ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete drops a session. Deleting an unknown id returns ErrSessionNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	metrics.SessionsActive.Set(float64(n))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastActivity().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	if removed > 0 {
		metrics.SessionsExpiredTotal.Add(float64(removed))
		m.log.Info("expired sessions swept", zap.Int("removed", removed), zap.Int("remaining", n))
	}
	return removed
}

// Submit confirms a reviewed session. The summary is written to the sink
// before the session becomes Submitted, so a storage failure leaves it in
// Reviewing and the caller can retry. Notification failures are logged only.
func (m *Manager) Submit(ctx context.Context, id string, contact Contact) (*storage.Submission, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	var sub storage.Submission
	_, err = s.submit(func(sum *Summary) error {
		payload, err := json.Marshal(sum)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		sub = storage.Submission{
			ID:           uuid.NewString(),
			SessionID:    sum.SessionID,
			CatalogKey:   sum.CatalogKey,
			Term:         string(sum.Term),
			Total:        sum.Breakdown.Total.String(),
			ContactName:  contact.Name,
			ContactEmail: contact.Email,
			Payload:      payload,
			SubmittedAt:  m.now().UTC(),
		}
		if m.sink == nil {
			return nil
		}
		if err := m.sink.SaveSubmission(ctx, sub); err != nil {
			return fmt.Errorf("save submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("quote submitted",
		zap.String("session", id),
		zap.String("submission", sub.ID),
		zap.String("catalog", sub.CatalogKey),
		zap.String("total", sub.Total))

	if m.notifier != nil {
		if err := m.notifier.NotifySubmission(ctx, sub); err != nil {
			m.log.Warn("submission notification failed", zap.String("submission", sub.ID), zap.Error(err))
		}
	}
	return &sub, nil
}
