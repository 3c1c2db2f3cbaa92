package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Pod Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	base := filepath.Base(path)
	if !sqlFileRe.MatchString(base) || !strings.HasSuffix(base, "_add_pod_index.sql") {
		t.Fatalf("unexpected filename %q", base)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error for name that sanitizes to empty")
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_init.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing down error")
	}
}

func TestCreateSQLMigrationBumpsPastNewestVersion(t *testing.T) {
	dir := t.TempDir()
	existing := "29991231235959_future.sql"
	if err := os.WriteFile(filepath.Join(dir, existing), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	path, err := CreateSQLMigration(dir, "next")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if base := filepath.Base(path); base != "29991231235960_next.sql" {
		t.Fatalf("expected version after existing, got %q", base)
	}
}

func TestCreateSQLMigrationUsesClock(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	path, err := CreateSQLMigration(t.TempDir(), "add licenses")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if base := filepath.Base(path); base != "20260304050607_add_licenses.sql" {
		t.Fatalf("unexpected filename %q", base)
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"bad.sql":                       "-- +goose Up\n-- +goose Down\n",
		"20260101000000_unbalanced.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"20260101000001_reversed.sql":   "-- +goose Down\n-- +goose Up\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid migration filename", "unterminated StatementBegin", "Down section precedes Up"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}
