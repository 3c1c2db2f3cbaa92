package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentops/licensetrack/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks ...string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesmenMigrationKeepsNaturalKeysOptional(t *testing.T) {
	assertContains(t, readMigration(t, "create_salesmen"),
		"CREATE TABLE IF NOT EXISTS salesmen",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_salesmen_npn ON salesmen (npn) WHERE npn IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_salesmen_associate_oid ON salesmen (associate_oid) WHERE associate_oid IS NOT NULL",
		"deleted BOOLEAN NOT NULL DEFAULT FALSE",
		"position_start_date DATE",
		"DROP TABLE IF EXISTS salesmen",
	)
}

func TestStatesMigrationCascades(t *testing.T) {
	content := readMigration(t, "create_states")
	assertContains(t, content,
		"FOREIGN KEY (salesman_id) REFERENCES salesmen(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_states_salesman_name ON states (salesman_id, name)",
		"DROP TABLE IF EXISTS states",
	)
	if strings.Contains(content, "appointment_date") {
		t.Error("states carries no appointment_date column; appointments hold their own dates")
	}
}

func TestLicensesMigrationKeysByNaturalKey(t *testing.T) {
	assertContains(t, readMigration(t, "create_licenses"),
		"FOREIGN KEY (state_id) REFERENCES states(id) ON DELETE CASCADE",
		"FOREIGN KEY (license_id) REFERENCES licenses(id) ON DELETE CASCADE",
		"idx_licenses_state_num ON licenses (state_id, license_num)",
		"idx_license_details_license_loa ON license_details (license_id, loa)",
		"DROP TABLE IF EXISTS license_details",
	)
}

func TestAppointmentsMigrationKeysByCompany(t *testing.T) {
	assertContains(t, readMigration(t, "create_appointments"),
		"idx_appointments_state_company ON appointments (state_id, company_name)",
		"appont_renewal_date DATE",
		"DROP TABLE IF EXISTS appointments",
	)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	if len(onDisk) == 0 || len(embedded) != len(onDisk) {
		t.Fatalf("expected %d embedded migrations, got %d", len(onDisk), len(embedded))
	}
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations must validate: %v", err)
	}
}
