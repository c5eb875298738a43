package storage

import (
	"context"
	"time"
)

// Storage abstracts persistence for catalogs, submitted quotes and the
// service's own settings. Selection state is never stored.
type Storage interface {
	// Catalogs
	ListCatalogs(ctx context.Context) ([]CatalogRecord, error)
	GetCatalog(ctx context.Context, key string) (*CatalogRecord, error)
	UpsertCatalog(ctx context.Context, rec CatalogRecord) error

	// Submissions
	SaveSubmission(ctx context.Context, sub Submission) error
	GetSubmission(ctx context.Context, id string) (*Submission, error)
	ListSubmissions(ctx context.Context, limit int) ([]Submission, error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Jobs
	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error

	// Email
	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	SaveEmailConfig(ctx context.Context, cfg EmailConfig) error

	Ping(ctx context.Context) error

	// Close releases any resources (no-op for in-memory).
	Close() error
}

// PoolStats is a connection pool snapshot.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
	Acquires int64
}

// PoolReporter is implemented by backends that own a connection pool.
type PoolReporter interface {
	PoolStats() PoolStats
}
