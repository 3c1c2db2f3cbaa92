package licensing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentops/licensetrack/internal/geography"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/db/models"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/pdb"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const metricsKind = "licensing"

// Service imports per-state licensing data from the producer directory.
type Service interface {
	Import(ctx context.Context, salesmanID uuid.UUID) (*ImportSummary, error)
	ImportByNPN(ctx context.Context, npn string) (*ImportSummary, error)
	UpdateNPNAndImport(ctx context.Context, salesmanID uuid.UUID, npn string) (*ImportSummary, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	directory Directory
	logg      *logger.Logger
	metrics   importMetrics
}

// NewService builds the importer. logg and metrics may be nil.
func NewService(repo Repository, tx txRunner, directory Directory, logg *logger.Logger, metrics importMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("licensing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory client required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		directory: directory,
		logg:      logg,
		metrics:   metrics,
	}, nil
}

func (s *service) Import(ctx context.Context, salesmanID uuid.UUID) (*ImportSummary, error) {
	if salesmanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salesman id is required")
	}
	salesman, err := s.repo.FindSalesman(ctx, salesmanID)
	if err != nil {
		return nil, mapLookupErr(err, "salesman")
	}
	return s.run(ctx, salesman, false)
}

func (s *service) ImportByNPN(ctx context.Context, npn string) (*ImportSummary, error) {
	npn = strings.TrimSpace(npn)
	if npn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "npn is required")
	}
	salesman, created, err := s.repo.FindOrCreateSalesmanByNPN(ctx, npn)
	if err != nil {
		return nil, mapWriteErr(err, "find or create salesman")
	}
	return s.run(ctx, salesman, created)
}

func (s *service) UpdateNPNAndImport(ctx context.Context, salesmanID uuid.UUID, npn string) (*ImportSummary, error) {
	if salesmanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salesman id is required")
	}
	npn = strings.TrimSpace(npn)
	if npn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "npn is required")
	}
	if err := s.repo.UpdateSalesman(ctx, salesmanID, map[string]any{"npn": npn}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salesman not found")
		}
		return nil, mapWriteErr(err, "update salesman npn")
	}
	return s.Import(ctx, salesmanID)
}

func (s *service) run(ctx context.Context, salesman *models.Salesman, created bool) (summary *ImportSummary, err error) {
	npn := salesman.NPNValue()
	if s.logg != nil {
		ctx = s.logg.WithSalesmanID(ctx, salesman.ID.String())
		ctx = s.logg.WithNPN(ctx, npn)
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRun(metricsKind, err)
		}
	}()

	if npn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salesman has no npn")
	}

	report, err := s.directory.Fetch(ctx, npn)
	if err != nil {
		s.logError(ctx, "licensing fetch failed", err)
		return nil, err
	}

	summary = &ImportSummary{SalesmanID: salesman.ID, NPN: npn, SalesmanCreated: created}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.applyBiographic(ctx, repo, salesman, report, summary); err != nil {
			return err
		}
		for _, state := range report.States {
			if err := s.applyState(ctx, repo, salesman.ID, state, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logError(ctx, "licensing import failed", err)
		return nil, err
	}

	s.recordCounts(summary)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"states":       summary.States,
			"licenses":     summary.Licenses,
			"details":      summary.Details,
			"appointments": summary.Appointments,
			"skipped":      len(summary.Skipped),
			"warnings":     len(summary.Warnings),
		}), "licensing import completed")
	}
	return summary, nil
}

func (s *service) applyBiographic(ctx context.Context, repo Repository, salesman *models.Salesman, report *pdb.Report, summary *ImportSummary) error {
	if strings.TrimSpace(salesman.FirstName) != "" || report.FirstName == "" {
		return nil
	}
	first := TitleCase(report.FirstName)
	last := TitleCase(report.LastName)
	if err := repo.UpdateSalesman(ctx, salesman.ID, map[string]any{"first_name": first, "last_name": last}); err != nil {
		return mapWriteErr(err, "update salesman name")
	}
	salesman.FirstName = first
	salesman.LastName = last
	summary.NameUpdated = true
	return nil
}

func (s *service) applyState(ctx context.Context, repo Repository, salesmanID uuid.UUID, record pdb.StateRecord, summary *ImportSummary) error {
	state, created, err := repo.FindOrCreateState(ctx, salesmanID, record.Name)
	if err != nil {
		return mapWriteErr(err, fmt.Sprintf("find or create state %s", record.Name))
	}
	summary.States++
	if created {
		summary.StatesCreated++
	}
	summary.Skipped = append(summary.Skipped, record.Skipped...)
	if !geography.IsJurisdiction(record.Name) {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: not one of the 50 states or DC", record.Name))
	}

	for _, lr := range record.Licenses {
		license := toLicense(state, salesmanID, lr)
		created, err := repo.UpsertLicense(ctx, license, lr.Present)
		if err != nil {
			return mapWriteErr(err, fmt.Sprintf("upsert license %s/%s", record.Name, lr.LicenseNum))
		}
		summary.Licenses++
		if created {
			summary.LicensesCreated++
		}
		for _, dr := range lr.Details {
			created, err := repo.UpsertLicenseDetail(ctx, toDetail(license.ID, dr), dr.Present)
			if err != nil {
				return mapWriteErr(err, fmt.Sprintf("upsert license detail %s/%s", lr.LicenseNum, dr.LOA))
			}
			summary.Details++
			if created {
				summary.DetailsCreated++
			}
		}
	}

	for _, ar := range record.Appointments {
		created, err := repo.UpsertAppointment(ctx, toAppointment(state.ID, ar), ar.Present)
		if err != nil {
			return mapWriteErr(err, fmt.Sprintf("upsert appointment %s/%s", record.Name, ar.CompanyName))
		}
		summary.Appointments++
		if created {
			summary.AppointmentsCreated++
		}
	}
	return nil
}

func (s *service) recordCounts(summary *ImportSummary) {
	if s.metrics == nil {
		return
	}
	s.metrics.AddRecords(metricsKind, "state", summary.States)
	s.metrics.AddRecords(metricsKind, "license", summary.Licenses)
	s.metrics.AddRecords(metricsKind, "license_detail", summary.Details)
	s.metrics.AddRecords(metricsKind, "appointment", summary.Appointments)
}

func (s *service) logError(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithField(ctx, "error_chain", pkgerrors.Dump(err)), msg, err)
}

// TitleCase renders directory names such as "MCALLISTER" as "Mcallister".
func TitleCase(value string) string {
	return cases.Title(language.English).String(strings.TrimSpace(value))
}

func mapLookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+entity)
}

func mapWriteErr(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
