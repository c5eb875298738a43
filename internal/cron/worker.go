// Package cron runs the service's periodic jobs: catalog refresh, idle
// session eviction and connection pool metrics.
package cron

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/alerting"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/storage"
)

const (
	JobRefreshCatalogs = "refresh_catalogs"
	JobSweepSessions   = "sweep_sessions"
	JobPoolMetrics     = "pool_metrics"

	// RefreshIntervalSetting is the settings key that overrides the refresh
	// interval at runtime.
	RefreshIntervalSetting = "refresh_interval"

	defaultRefreshInterval = time.Hour
)

// CatalogRefresher reloads catalogs and reports how many are registered.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// SessionSweeper evicts idle sessions.
type SessionSweeper interface {
	Sweep(now time.Time) int
}

// Worker owns the cron scheduler.
type Worker struct {
	cron     *cron.Cron
	store    storage.Storage
	catalogs CatalogRefresher
	sessions SessionSweeper
	alerter  *alerting.Alerter
	log      *zap.Logger

	// ctx is the Start context, used by job runs.
	ctx context.Context

	mu          sync.Mutex
	refreshSpec string
	refreshID   cron.EntryID
}

// Config carries the worker's dependencies. Store, Sessions and Alerter may be nil.
type Config struct {
	Store           storage.Storage
	Catalogs        CatalogRefresher
	Sessions        SessionSweeper
	Alerter         *alerting.Alerter
	RefreshInterval string
	Logger          *zap.Logger
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func NewWorker(cfg Config) *Worker {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("cron")
	cl := cronLogger{s: log.Sugar()}

	spec := strings.TrimSpace(cfg.RefreshInterval)
	if spec == "" {
		spec = strconv.Itoa(int(defaultRefreshInterval / time.Second))
	}

	return &Worker{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		store:       cfg.Store,
		catalogs:    cfg.Catalogs,
		sessions:    cfg.Sessions,
		alerter:     cfg.Alerter,
		log:         log,
		ctx:         context.Background(),
		refreshSpec: spec,
	}
}

// ParseInterval accepts integer seconds ("300") or a standard five-field
// cron expression ("*/15 * * * *").
func ParseInterval(setting string) (cron.Schedule, error) {
	setting = strings.TrimSpace(setting)
	if v, err := strconv.Atoi(setting); err == nil {
		if v <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %d", v)
		}
		return cron.Every(time.Duration(v) * time.Second), nil
	}
	sched, err := cron.ParseStandard(setting)
	if err != nil {
		return nil, fmt.Errorf("invalid interval %q: %w", setting, err)
	}
	return sched, nil
}

// Start registers the jobs and starts the scheduler. Catalogs are refreshed
// once synchronously before Start returns.
func (w *Worker) Start(ctx context.Context) error {
	w.ctx = ctx

	if w.store != nil {
		if val, err := w.store.GetSetting(ctx, RefreshIntervalSetting); err == nil && val != "" {
			w.refreshSpec = val
		}
	}

	if w.catalogs != nil {
		w.run(JobRefreshCatalogs, w.refreshCatalogs)
		if err := w.scheduleRefresh(w.refreshSpec); err != nil {
			return err
		}
		if w.store != nil {
			if _, err := w.cron.AddFunc("@every 1m", w.checkSettings); err != nil {
				return fmt.Errorf("schedule settings watch: %w", err)
			}
		}
	}

	if w.sessions != nil {
		if _, err := w.cron.AddFunc("@every 1m", func() { w.run(JobSweepSessions, w.sweepSessions) }); err != nil {
			return fmt.Errorf("schedule %s: %w", JobSweepSessions, err)
		}
	}

	if pr, ok := w.store.(storage.PoolReporter); ok {
		if _, err := w.cron.AddFunc("@every 15s", func() { publishPoolStats(pr) }); err != nil {
			return fmt.Errorf("schedule %s: %w", JobPoolMetrics, err)
		}
	}

	w.cron.Start()
	w.log.Info("cron worker started", zap.String("refresh_interval", w.refreshSpec))
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
}

// RefreshSpec returns the interval currently used for catalog refresh.
func (w *Worker) RefreshSpec() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refreshSpec
}

func (w *Worker) scheduleRefresh(spec string) error {
	sched, err := ParseInterval(spec)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.refreshID != 0 {
		w.cron.Remove(w.refreshID)
	}
	w.refreshID = w.cron.Schedule(sched, cron.FuncJob(func() { w.run(JobRefreshCatalogs, w.refreshCatalogs) }))
	w.refreshSpec = spec
	return nil
}

// checkSettings reschedules the refresh job when the stored interval changes.
func (w *Worker) checkSettings() {
	val, err := w.store.GetSetting(w.ctx, RefreshIntervalSetting)
	if err != nil || val == "" || val == w.RefreshSpec() {
		return
	}
	old := w.RefreshSpec()
	if err := w.scheduleRefresh(val); err != nil {
		w.log.Warn("ignoring invalid refresh interval setting", zap.String("value", val), zap.Error(err))
		return
	}
	w.log.Info("refresh interval updated", zap.String("from", old), zap.String("to", val))
}

// run executes one job and records its outcome in metrics, storage and alerting.
func (w *Worker) run(name string, fn func(ctx context.Context) error) {
	started := time.Now()
	runErr := fn(w.ctx)
	dur := time.Since(started)

	metrics.UpdateJobMetrics(name, started, runErr)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		w.log.Error("job failed", zap.String("job", name), zap.Duration("duration", dur), zap.Error(runErr))
	} else {
		w.log.Debug("job completed", zap.String("job", name), zap.Duration("duration", dur))
	}

	if w.store != nil {
		if err := w.store.UpdateScheduledJob(w.ctx, name, started, dur, runErr == nil, errMsg); err != nil {
			w.log.Warn("update scheduled_jobs failed", zap.String("job", name), zap.Error(err))
		}
	}
	if w.alerter != nil {
		if err := w.alerter.RecordRun(w.ctx, name, dur, runErr); err != nil {
			w.log.Warn("send alert failed", zap.String("job", name), zap.Error(err))
		}
	}
}

func (w *Worker) refreshCatalogs(ctx context.Context) error {
	n, err := w.catalogs.Refresh(ctx)
	if err != nil {
		return err
	}
	w.log.Debug("catalogs refreshed", zap.Int("count", n))
	return nil
}

func (w *Worker) sweepSessions(context.Context) error {
	w.sessions.Sweep(time.Now())
	return nil
}

func publishPoolStats(pr storage.PoolReporter) {
	st := pr.PoolStats()
	metrics.UpdateDBPoolMetrics("postgrespool", float64(st.Total), float64(st.Idle), float64(st.Acquired), st.Acquires)
}
