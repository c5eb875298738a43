package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bher20/quotemanager/internal/storage"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (int, error) {
	f.calls++
	return 2, f.err
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep(time.Time) int {
	f.calls++
	return 0
}

func TestParseInterval(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 7, 0, 0, time.UTC)
	cases := []struct {
		in   string
		next time.Time
	}{
		{"300", base.Add(5 * time.Minute)},
		{"*/15 * * * *", time.Date(2026, 1, 1, 10, 15, 0, 0, time.UTC)},
		{"@hourly", time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		s, err := ParseInterval(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got := s.Next(base); !got.Equal(tc.next) {
			t.Errorf("%q: next = %v, want %v", tc.in, got, tc.next)
		}
	}
	for _, bad := range []string{"0", "-5", "every tuesday"} {
		if _, err := ParseInterval(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestStart_RefreshesAndRecordsJob(t *testing.T) {
	store := storage.NewMemory()
	ref := &fakeRefresher{}
	w := NewWorker(Config{Store: store, Catalogs: ref, Sessions: &fakeSweeper{}, RefreshInterval: "600"})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if ref.calls != 1 {
		t.Errorf("expected one synchronous refresh, got %d", ref.calls)
	}
	job, ok := store.ScheduledJob(JobRefreshCatalogs)
	if !ok || job.LastSuccess != 1 {
		t.Errorf("scheduled job not recorded: %+v", job)
	}
}

func TestStart_StoredIntervalOverridesConfig(t *testing.T) {
	store := storage.NewMemory()
	store.SetSetting(context.Background(), RefreshIntervalSetting, "*/5 * * * *")
	w := NewWorker(Config{Store: store, Catalogs: &fakeRefresher{}, RefreshInterval: "600"})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()
	if w.RefreshSpec() != "*/5 * * * *" {
		t.Errorf("RefreshSpec = %q", w.RefreshSpec())
	}
}

func TestCheckSettings_Reschedules(t *testing.T) {
	store := storage.NewMemory()
	w := NewWorker(Config{Store: store, Catalogs: &fakeRefresher{}, RefreshInterval: "600"})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	store.SetSetting(context.Background(), RefreshIntervalSetting, "120")
	w.checkSettings()
	if w.RefreshSpec() != "120" {
		t.Errorf("RefreshSpec = %q, want 120", w.RefreshSpec())
	}

	store.SetSetting(context.Background(), RefreshIntervalSetting, "nonsense")
	w.checkSettings()
	if w.RefreshSpec() != "120" {
		t.Errorf("invalid setting must be ignored, got %q", w.RefreshSpec())
	}
}

func TestRun_RecordsFailure(t *testing.T) {
	store := storage.NewMemory()
	ref := &fakeRefresher{err: errors.New("boom")}
	w := NewWorker(Config{Store: store, Catalogs: ref})

	w.run(JobRefreshCatalogs, w.refreshCatalogs)
	job, ok := store.ScheduledJob(JobRefreshCatalogs)
	if !ok {
		t.Fatalf("job not recorded")
	}
	if job.LastSuccess != 0 || job.LastError != "boom" {
		t.Errorf("unexpected job row: %+v", job)
	}
}

func TestStart_InvalidInterval(t *testing.T) {
	w := NewWorker(Config{Catalogs: &fakeRefresher{}, RefreshInterval: "never"})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatalf("expected error for invalid interval")
	}
}
