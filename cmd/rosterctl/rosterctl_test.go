package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/pkg/enums"
)

type stubRoster struct {
	mode enums.RosterMode
	body string
}

func (s *stubRoster) Load(ctx context.Context, mode enums.RosterMode, r io.Reader) (*roster.ImportSummary, error) {
	b, _ := io.ReadAll(r)
	s.mode, s.body = mode, string(b)
	return &roster.ImportSummary{Mode: mode.String(), Rows: 1}, nil
}

func (s *stubRoster) CreateAll(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModeCreate, r)
}

func (s *stubRoster) PatchByAssociateOID(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModePatch, r)
}

func (s *stubRoster) UpsertByNPN(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModeUpsert, r)
}

func (s *stubRoster) ImportWorkbookNPNs(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	b, _ := io.ReadAll(r)
	s.body = string(b)
	return &roster.ImportSummary{Mode: "npn_workbook"}, nil
}

type stubLicensing struct {
	npn string
	id  uuid.UUID
}

func (s *stubLicensing) Import(ctx context.Context, id uuid.UUID) (*licensing.ImportSummary, error) {
	s.id = id
	return &licensing.ImportSummary{SalesmanID: id}, nil
}

func (s *stubLicensing) ImportByNPN(ctx context.Context, npn string) (*licensing.ImportSummary, error) {
	s.npn = npn
	return &licensing.ImportSummary{NPN: npn}, nil
}

func (s *stubLicensing) UpdateNPNAndImport(ctx context.Context, id uuid.UUID, npn string) (*licensing.ImportSummary, error) {
	return &licensing.ImportSummary{SalesmanID: id, NPN: npn}, nil
}

func testRuntime(out io.Writer, r roster.Service, l licensing.Service, closed *bool) *runtime {
	return &runtime{
		out: out,
		open: func(ctx context.Context) (*session, error) {
			return &session{
				roster:    r,
				licensing: l,
				close: func() error {
					*closed = true
					return nil
				},
			}, nil
		},
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func run(t *testing.T, rt *runtime, args ...string) error {
	t.Helper()
	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestRosterImportCommand(t *testing.T) {
	var out bytes.Buffer
	closed := false
	r := &stubRoster{}
	path := writeTemp(t, "roster.csv", "npn\n1001\n")

	if err := run(t, testRuntime(&out, r, nil, &closed), "roster", "import", "--mode", "patch", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.mode != enums.RosterModePatch || r.body != "npn\n1001\n" {
		t.Fatalf("unexpected call %s %q", r.mode, r.body)
	}
	if !closed {
		t.Fatal("expected session closed")
	}

	var summary roster.ImportSummary
	if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if summary.Mode != "patch" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRosterImportRejectsMode(t *testing.T) {
	closed := false
	path := writeTemp(t, "roster.csv", "npn\n")
	err := run(t, testRuntime(io.Discard, &stubRoster{}, nil, &closed), "roster", "import", "--mode", "merge", path)
	if err == nil || !strings.Contains(err.Error(), "--mode") {
		t.Fatalf("expected mode error, got %v", err)
	}
}

func TestNPNWorkbookCommand(t *testing.T) {
	closed := false
	r := &stubRoster{}
	path := writeTemp(t, "npns.xlsx", "xlsx")
	if err := run(t, testRuntime(io.Discard, r, nil, &closed), "roster", "npn-workbook", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.body != "xlsx" {
		t.Fatalf("unexpected body %q", r.body)
	}
}

func TestLicensingImportCommand(t *testing.T) {
	closed := false
	l := &stubLicensing{}
	rt := testRuntime(io.Discard, &stubRoster{}, l, &closed)

	if err := run(t, rt, "licensing", "import", "--npn", "1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.npn != "1234" {
		t.Fatalf("expected npn import, got %q", l.npn)
	}

	id := uuid.New()
	if err := run(t, rt, "licensing", "import", "--salesman-id", id.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.id != id {
		t.Fatalf("expected salesman import %s, got %s", id, l.id)
	}
}

func TestLicensingImportCommandValidation(t *testing.T) {
	closed := false
	rt := testRuntime(io.Discard, &stubRoster{}, &stubLicensing{}, &closed)

	if err := run(t, rt, "licensing", "import"); err == nil {
		t.Fatal("expected error without flags")
	}
	if err := run(t, rt, "licensing", "import", "--npn", "1", "--salesman-id", uuid.NewString()); err == nil {
		t.Fatal("expected error with both flags")
	}
	if err := run(t, rt, "licensing", "import", "--salesman-id", "nope"); err == nil {
		t.Fatal("expected error for invalid uuid")
	}

	noDirectory := testRuntime(io.Discard, &stubRoster{}, nil, &closed)
	if err := run(t, noDirectory, "licensing", "import", "--npn", "1"); err == nil {
		t.Fatal("expected error without directory credentials")
	}
}
