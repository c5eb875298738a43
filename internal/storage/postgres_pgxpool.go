package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPoolStorage struct {
	pool *pgxpool.Pool
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	if dsn == "" {
		dsn = "postgres://localhost:5432/quotemanager?sslmode=disable"
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresPoolStorage{pool: pool}, nil
}

func (s *PostgresPoolStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresPoolStorage) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// PoolStats reports the current pgxpool counters.
func (s *PostgresPoolStorage) PoolStats() PoolStats {
	st := s.pool.Stat()
	return PoolStats{
		Total:    st.TotalConns(),
		Idle:     st.IdleConns(),
		Acquired: st.AcquiredConns(),
		Acquires: st.AcquireCount(),
	}
}

func (s *PostgresPoolStorage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS catalogs (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			vertical TEXT NOT NULL DEFAULT '',
			payload BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			catalog_key TEXT NOT NULL,
			term TEXT NOT NULL,
			total TEXT NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			contact_email TEXT NOT NULL DEFAULT '',
			payload BYTEA NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			name TEXT PRIMARY KEY,
			last_run_at TIMESTAMPTZ,
			last_duration_ms BIGINT,
			last_success INTEGER,
			last_error TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS email_config (
			id TEXT PRIMARY KEY,
			provider TEXT,
			host TEXT,
			port INTEGER,
			username TEXT,
			password TEXT,
			from_address TEXT,
			from_name TEXT,
			api_key TEXT,
			enabled BOOLEAN,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresPoolStorage) ListCatalogs(ctx context.Context) ([]CatalogRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, name, vertical, payload, updated_at FROM catalogs ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CatalogRecord
	for rows.Next() {
		var c CatalogRecord
		if err := rows.Scan(&c.Key, &c.Name, &c.Vertical, &c.Payload, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) GetCatalog(ctx context.Context, key string) (*CatalogRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT key, name, vertical, payload, updated_at FROM catalogs WHERE key=$1`, key)
	var c CatalogRecord
	if err := row.Scan(&c.Key, &c.Name, &c.Vertical, &c.Payload, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresPoolStorage) UpsertCatalog(ctx context.Context, rec CatalogRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO catalogs (key, name, vertical, payload, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (key) DO UPDATE SET
			name=EXCLUDED.name,
			vertical=EXCLUDED.vertical,
			payload=EXCLUDED.payload,
			updated_at=EXCLUDED.updated_at
	`, rec.Key, rec.Name, rec.Vertical, rec.Payload, rec.UpdatedAt)
	return err
}

func (s *PostgresPoolStorage) SaveSubmission(ctx context.Context, sub Submission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO submissions (id, session_id, catalog_key, term, total, contact_name, contact_email, payload, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, sub.ID, sub.SessionID, sub.CatalogKey, sub.Term, sub.Total, sub.ContactName, sub.ContactEmail, sub.Payload, sub.SubmittedAt)
	return err
}

const submissionColumns = `id, session_id, catalog_key, term, total, contact_name, contact_email, payload, submitted_at`

func scanSubmission(row pgx.Row) (Submission, error) {
	var sub Submission
	err := row.Scan(&sub.ID, &sub.SessionID, &sub.CatalogKey, &sub.Term, &sub.Total,
		&sub.ContactName, &sub.ContactEmail, &sub.Payload, &sub.SubmittedAt)
	return sub, err
}

func (s *PostgresPoolStorage) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	sub, err := scanSubmission(s.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *PostgresPoolStorage) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *PostgresPoolStorage) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at
	`, key, value, time.Now())
	return err
}

func (s *PostgresPoolStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	status := 0
	if success {
		status = 1
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scheduled_jobs (name, last_run_at, last_duration_ms, last_success, last_error)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name) DO UPDATE SET
			last_run_at=EXCLUDED.last_run_at,
			last_duration_ms=EXCLUDED.last_duration_ms,
			last_success=EXCLUDED.last_success,
			last_error=EXCLUDED.last_error
	`, name, started, dur.Milliseconds(), status, errMsg)
	return err
}

func (s *PostgresPoolStorage) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var c EmailConfig
	err := s.pool.QueryRow(ctx, `
		SELECT id, provider, host, port, username, password, from_address, from_name, api_key, enabled, created_at, updated_at
		FROM email_config LIMIT 1
	`).Scan(&c.ID, &c.Provider, &c.Host, &c.Port, &c.Username, &c.Password, &c.FromAddress, &c.FromName,
		&c.APIKey, &c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresPoolStorage) SaveEmailConfig(ctx context.Context, c EmailConfig) error {
	if c.ID == "" {
		c.ID = "default"
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_config (id, provider, host, port, username, password, from_address, from_name, api_key, enabled, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			provider=EXCLUDED.provider, host=EXCLUDED.host, port=EXCLUDED.port,
			username=EXCLUDED.username, password=EXCLUDED.password,
			from_address=EXCLUDED.from_address, from_name=EXCLUDED.from_name,
			api_key=EXCLUDED.api_key, enabled=EXCLUDED.enabled, updated_at=EXCLUDED.updated_at
	`, c.ID, c.Provider, c.Host, c.Port, c.Username, c.Password, c.FromAddress, c.FromName, c.APIKey, c.Enabled, c.CreatedAt, now)
	return err
}
