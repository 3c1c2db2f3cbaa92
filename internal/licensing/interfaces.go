package licensing

import (
	"context"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/pdb"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the licensing subtree.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSalesman(ctx context.Context, id uuid.UUID) (*models.Salesman, error)
	FindOrCreateSalesmanByNPN(ctx context.Context, npn string) (*models.Salesman, bool, error)
	UpdateSalesman(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindOrCreateState(ctx context.Context, salesmanID uuid.UUID, name string) (*models.State, bool, error)
	// The Upsert methods create a missing row or update only columns on an
	// existing one; empty columns overwrite every field.
	UpsertLicense(ctx context.Context, license *models.License, columns []string) (bool, error)
	UpsertLicenseDetail(ctx context.Context, detail *models.LicenseDetail, columns []string) (bool, error)
	UpsertAppointment(ctx context.Context, appointment *models.Appointment, columns []string) (bool, error)
}

// Directory fetches decoded entity info reports.
type Directory interface {
	Fetch(ctx context.Context, npn string) (*pdb.Report, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type importMetrics interface {
	ObserveRun(kind string, err error)
	AddRecords(kind, entity string, n int)
}
