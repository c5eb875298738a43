// Package migrate applies the versioned SQL schema with goose.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations
var embedMigrations embed.FS

// gooseLogger routes goose output through zap.
type gooseLogger struct{ s *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.s.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}

// SetLogger sends goose progress messages to log.
func SetLogger(log *zap.Logger) {
	if log == nil {
		goose.SetLogger(goose.NopLogger())
		return
	}
	goose.SetLogger(gooseLogger{s: log.Named("migrate").Sugar()})
}

func isPostgres(driver string) bool {
	return driver == "postgres" || driver == "pgx" || driver == "postgrespool"
}

func configureGoose(driver string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetTableName("schema_migrations")

	switch {
	case driver == "sqlite" || driver == "sqlite3":
		return goose.SetDialect("sqlite3")
	case isPostgres(driver):
		return goose.SetDialect("postgres")
	}
	return fmt.Errorf("unsupported driver for goose: %s", driver)
}

func getMigrationDir(driver string) string {
	if isPostgres(driver) {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

func openDB(driver, dsn string) (*sql.DB, error) {
	if isPostgres(driver) {
		if dsn == "" {
			dsn = "postgres://localhost:5432/quotemanager?sslmode=disable"
		}
		return sql.Open("pgx", dsn)
	}
	if dsn == "" {
		dsn = "quotemanager.db"
	}
	return sql.Open("sqlite", dsn)
}

func withDB(driver, dsn string, fn func(db *sql.DB, dir string) error) error {
	if driver == "" {
		driver = "sqlite"
	}
	if driver == "memory" {
		return fmt.Errorf("the memory driver has no schema to migrate")
	}
	if err := configureGoose(driver); err != nil {
		return err
	}
	db, err := openDB(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()
	return fn(db, getMigrationDir(driver))
}

// Up applies all pending migrations.
func Up(ctx context.Context, driver, dsn string) error {
	return withDB(driver, dsn, func(db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, driver, dsn string) error {
	return withDB(driver, dsn, func(db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Status prints the applied state of every migration through the goose logger.
func Status(ctx context.Context, driver, dsn string) error {
	return withDB(driver, dsn, func(db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, driver, dsn string) (int64, error) {
	var v int64
	err := withDB(driver, dsn, func(db *sql.DB, _ string) error {
		var err error
		v, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return v, err
}
