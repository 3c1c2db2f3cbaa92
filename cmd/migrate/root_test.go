package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recorder struct {
	commands []string
	version  string
	closed   bool
}

func testRuntime(rec *recorder, out *bytes.Buffer) *runtime {
	return &runtime{
		out: out,
		open: func(context.Context) (*sql.DB, func() error, error) {
			return nil, func() error { rec.closed = true; return nil }, nil
		},
		run: func(_ context.Context, _ *sql.DB, _ string, command string) error {
			rec.commands = append(rec.commands, command)
			return nil
		},
		to: func(_ context.Context, _ *sql.DB, _ string, version string) error {
			rec.version = version
			return nil
		},
	}
}

func execute(t *testing.T, rt *runtime, args ...string) error {
	t.Helper()
	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestGooseCommandsOpenAndCloseDB(t *testing.T) {
	rec := &recorder{}
	for _, c := range []string{"up", "down", "status"} {
		if err := execute(t, testRuntime(rec, &bytes.Buffer{}), c); err != nil {
			t.Fatalf("%s: %v", c, err)
		}
	}
	if strings.Join(rec.commands, ",") != "up,down,status" {
		t.Fatalf("unexpected commands %v", rec.commands)
	}
	if !rec.closed {
		t.Fatal("expected db to be closed")
	}
}

func TestVersionRequiresArgument(t *testing.T) {
	rec := &recorder{}
	if err := execute(t, testRuntime(rec, &bytes.Buffer{}), "version"); err == nil {
		t.Fatal("expected missing version error")
	}
	if err := execute(t, testRuntime(rec, &bytes.Buffer{}), "version", "20260105120300"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if rec.version != "20260105120300" {
		t.Fatalf("unexpected version %q", rec.version)
	}
}

func TestOpenFailureSkipsGoose(t *testing.T) {
	rec := &recorder{}
	rt := testRuntime(rec, &bytes.Buffer{})
	rt.open = func(context.Context) (*sql.DB, func() error, error) {
		return nil, nil, errors.New("no database")
	}
	if err := execute(t, rt, "up"); err == nil || !strings.Contains(err.Error(), "no database") {
		t.Fatalf("expected open error, got %v", err)
	}
	if len(rec.commands) != 0 {
		t.Fatalf("goose should not run, got %v", rec.commands)
	}
}

func TestCreateAndValidateWithoutDB(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}
	rec := &recorder{}

	if err := execute(t, testRuntime(rec, out), "--dir", dir, "create", "add license index"); err != nil {
		t.Fatalf("create: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one migration, got %v (%v)", entries, err)
	}
	if !strings.HasSuffix(entries[0].Name(), "_add_license_index.sql") {
		t.Fatalf("unexpected file %q", entries[0].Name())
	}

	if err := execute(t, testRuntime(rec, out), "--dir", dir, "validate"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out.String(), "migration validation passed") {
		t.Fatalf("unexpected output %q", out.String())
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := execute(t, testRuntime(rec, out), "--dir", dir, "validate"); err == nil {
		t.Fatal("expected validation failure")
	}
	if len(rec.commands) != 0 || rec.closed {
		t.Fatal("create and validate must not open the database")
	}
}
