package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestUpDown_SQLite(t *testing.T) {
	SetLogger(nil)
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "quotemanager.db")

	if err := Up(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("Up: %v", err)
	}
	v, err := Version(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 2 {
		t.Fatalf("version = %d, want 2", v)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES ('refresh_interval', '60', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("insert into migrated schema: %v", err)
	}

	if err := Down(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if v, _ := Version(ctx, "sqlite", dsn); v != 1 {
		t.Errorf("version after down = %d, want 1", v)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if err := Up(context.Background(), "memory", ""); err == nil {
		t.Errorf("expected error for memory driver")
	}
	if err := Up(context.Background(), "oracle", ""); err == nil {
		t.Errorf("expected error for unknown driver")
	}
}
