package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBundledMigrationsValidate(t *testing.T) {
	if err := Validate(Migrations(), "migrations"); err != nil {
		t.Fatalf("bundled migrations invalid: %v", err)
	}
}

func TestValidateRejectsMissingCounterpart(t *testing.T) {
	body := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	fsys := fstest.MapFS{
		"m/postgres/20250101000000_a.sql": {Data: body},
		"m/postgres/20250102000000_b.sql": {Data: body},
		"m/sqlite3/20250101000000_a.sql":  {Data: body},
	}
	err := Validate(fsys, "m")
	if err == nil || !strings.Contains(err.Error(), "20250102000000_b.sql") {
		t.Fatalf("expected missing counterpart error, got %v", err)
	}
}

func TestValidateRejectsMissingDownSection(t *testing.T) {
	fsys := fstest.MapFS{
		"m/postgres/20250101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
		"m/sqlite3/20250101000000_a.sql":  {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	if err := Validate(fsys, "m"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDialectDirUnknown(t *testing.T) {
	if _, err := DialectDir("mysql"); err == nil {
		t.Fatalf("expected error for unbundled dialect")
	}
}

func TestCreateSQLMigrationWritesEveryDialect(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	paths, err := CreateSQLMigration(dir, "Add Order Notes!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(paths) != len(Dialects) {
		t.Fatalf("expected %d files, got %d", len(Dialects), len(paths))
	}
	for _, p := range paths {
		if filepath.Base(p) != "20250304050607_add_order_notes.sql" {
			t.Fatalf("unexpected filename %s", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
	}
	if err := Validate(os.DirFS(dir), "."); err != nil {
		t.Fatalf("created migrations should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "add order notes", now); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestRunUpOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Run(context.Background(), sqlDB, "sqlite3", "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	for _, table := range []string{"kv_entries", "orders", "order_line_items"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migrating", table)
		}
	}
}
