package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// simple single-process deployments.
type MemoryStorage struct {
	mu          sync.RWMutex
	catalogs    map[string]CatalogRecord
	submissions map[string]Submission
	settings    map[string]string
	jobs        map[string]ScheduledJob
	emailConfig *EmailConfig
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		catalogs:    make(map[string]CatalogRecord),
		submissions: make(map[string]Submission),
		settings:    make(map[string]string),
		jobs:        make(map[string]ScheduledJob),
	}
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) ListCatalogs(ctx context.Context) ([]CatalogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CatalogRecord, 0, len(m.catalogs))
	for _, c := range m.catalogs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryStorage) GetCatalog(ctx context.Context, key string) (*CatalogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[key]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (m *MemoryStorage) UpsertCatalog(ctx context.Context, rec CatalogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	m.catalogs[rec.Key] = rec
	return nil
}

func (m *MemoryStorage) SaveSubmission(ctx context.Context, sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	sub.Payload = append([]byte(nil), sub.Payload...)
	m.submissions[sub.ID] = sub
	return nil
}

func (m *MemoryStorage) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

// ListSubmissions returns the most recent submissions first.
func (m *MemoryStorage) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Submission, 0, len(m.submissions))
	for _, s := range m.submissions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStorage) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[key], nil
}

func (m *MemoryStorage) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *MemoryStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := 0
	if success {
		status = 1
	}
	m.jobs[name] = ScheduledJob{
		Name:           name,
		LastRunAt:      started,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    status,
		LastError:      errMsg,
	}
	return nil
}

// ScheduledJob returns the last recorded run of a job.
func (m *MemoryStorage) ScheduledJob(name string) (ScheduledJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[name]
	return j, ok
}

func (m *MemoryStorage) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.emailConfig == nil {
		return nil, nil
	}
	cp := *m.emailConfig
	return &cp, nil
}

func (m *MemoryStorage) SaveEmailConfig(ctx context.Context, cfg EmailConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID = "default"
	}
	m.emailConfig = &cfg
	return nil
}
