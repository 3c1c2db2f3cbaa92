package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/enums"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/fieldmap"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const workbookMode = "npn_workbook"

// LicensingImporter syncs a salesman with the producer directory.
type LicensingImporter interface {
	Import(ctx context.Context, salesmanID uuid.UUID) (*licensing.ImportSummary, error)
	ImportByNPN(ctx context.Context, npn string) (*licensing.ImportSummary, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type importMetrics interface {
	ObserveRun(kind string, err error)
	AddRecords(kind, entity string, n int)
}

// Service loads roster files into salesman records.
type Service interface {
	Load(ctx context.Context, mode enums.RosterMode, r io.Reader) (*ImportSummary, error)
	CreateAll(ctx context.Context, r io.Reader) (*ImportSummary, error)
	PatchByAssociateOID(ctx context.Context, r io.Reader) (*ImportSummary, error)
	UpsertByNPN(ctx context.Context, r io.Reader) (*ImportSummary, error)
	ImportWorkbookNPNs(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	importer LicensingImporter
	logg     *logger.Logger
	metrics  importMetrics
}

// NewService builds the roster loader. importer, logg and metrics may be nil;
// without an importer new salesmen are stored but not synced.
func NewService(repo Repository, tx txRunner, importer LicensingImporter, logg *logger.Logger, metrics importMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("roster repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, importer: importer, logg: logg, metrics: metrics}, nil
}

func (s *service) Load(ctx context.Context, mode enums.RosterMode, r io.Reader) (*ImportSummary, error) {
	switch mode {
	case enums.RosterModeCreate:
		return s.CreateAll(ctx, r)
	case enums.RosterModePatch:
		return s.PatchByAssociateOID(ctx, r)
	case enums.RosterModeUpsert:
		return s.UpsertByNPN(ctx, r)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown roster mode %q", mode))
	}
}

// CreateAll inserts one salesman per row. Any failing row rolls back the file.
func (s *service) CreateAll(ctx context.Context, r io.Reader) (summary *ImportSummary, err error) {
	defer s.observe(ctx, string(enums.RosterModeCreate), &summary, &err)

	sheet, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	summary = newSummary(string(enums.RosterModeCreate), sheet)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range sheet.Rows {
			salesman := &models.Salesman{}
			if _, err := fieldmap.Apply(salesman, row.Fields, salesmanColumns); err != nil {
				return rowErr(row.Line, err)
			}
			if err := repo.Create(ctx, salesman); err != nil {
				return rowErr(row.Line, err)
			}
			summary.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// PatchByAssociateOID finds or creates a salesman per associate_oid and
// overwrites cxp_employee_id and username.
func (s *service) PatchByAssociateOID(ctx context.Context, r io.Reader) (summary *ImportSummary, err error) {
	defer s.observe(ctx, string(enums.RosterModePatch), &summary, &err)

	sheet, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	summary = newSummary(string(enums.RosterModePatch), sheet)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range sheet.Rows {
			oid := strings.TrimSpace(row.Fields["associate_oid"])
			if oid == "" {
				summary.Skipped++
				summary.warn(fmt.Sprintf("line %d: blank associate_oid, skipped", row.Line))
				continue
			}
			salesman, created, err := repo.FindOrCreateByAssociateOID(ctx, oid)
			if err != nil {
				return rowErr(row.Line, err)
			}
			salesman.CXPEmployeeID = strings.TrimSpace(row.Fields["cxp_employee_id"])
			salesman.Username = strings.TrimSpace(row.Fields["username"])
			if err := repo.Save(ctx, salesman); err != nil {
				return rowErr(row.Line, err)
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

type pendingImport struct {
	line int
	id   uuid.UUID
	npn  string
}

// UpsertByNPN updates the salesman matching each row's npn or creates it. New
// salesmen are synced from the producer directory after the rows commit.
func (s *service) UpsertByNPN(ctx context.Context, r io.Reader) (summary *ImportSummary, err error) {
	defer s.observe(ctx, string(enums.RosterModeUpsert), &summary, &err)

	sheet, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	summary = newSummary(string(enums.RosterModeUpsert), sheet)
	var pending []pendingImport
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range sheet.Rows {
			npn := strings.TrimSpace(row.Fields["npn"])
			if npn == "" {
				summary.Skipped++
				summary.warn(fmt.Sprintf("line %d: blank npn, skipped", row.Line))
				continue
			}

			existing, err := repo.FindByNPN(ctx, npn)
			switch {
			case err == nil:
				if _, err := fieldmap.Apply(existing, row.Fields, salesmanColumns); err != nil {
					return rowErr(row.Line, err)
				}
				if err := repo.Save(ctx, existing); err != nil {
					return rowErr(row.Line, err)
				}
				summary.Updated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				salesman := &models.Salesman{}
				if _, err := fieldmap.Apply(salesman, row.Fields, salesmanColumns); err != nil {
					return rowErr(row.Line, err)
				}
				if err := repo.Create(ctx, salesman); err != nil {
					return rowErr(row.Line, err)
				}
				summary.Created++
				pending = append(pending, pendingImport{line: row.Line, id: salesman.ID, npn: npn})
			default:
				return rowErr(row.Line, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		if s.importer == nil {
			summary.warn(fmt.Sprintf("line %d: licensing import not configured for npn %s", p.line, p.npn))
			continue
		}
		if _, err := s.importer.Import(ctx, p.id); err != nil {
			summary.Failures = append(summary.Failures, Failure{Line: p.line, SalesmanID: p.id, NPN: p.npn, Error: err.Error()})
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func (s *service) observe(ctx context.Context, mode string, summary **ImportSummary, err *error) {
	kind := "roster_" + mode
	if s.metrics != nil {
		s.metrics.ObserveRun(kind, *err)
		if *summary != nil {
			s.metrics.AddRecords(kind, "salesman", (*summary).Created+(*summary).Updated)
		}
	}
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "mode", mode)
	if *err != nil {
		s.logg.Error(s.logg.WithField(ctx, "error_chain", pkgerrors.Dump(*err)), "roster import failed", *err)
		return
	}
	sum := *summary
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"rows":     sum.Rows,
		"created":  sum.Created,
		"updated":  sum.Updated,
		"skipped":  sum.Skipped,
		"imported": sum.Imported,
		"failures": len(sum.Failures),
	}), "roster import completed")
}

func newSummary(mode string, sheet *Sheet) *ImportSummary {
	summary := &ImportSummary{
		Mode:     mode,
		Rows:     len(sheet.Rows),
		Warnings: append([]string{}, sheet.Warnings...),
	}
	var unknown []string
	for _, name := range sheet.Header {
		if name == "" {
			continue
		}
		if _, audit := auditColumns[name]; audit {
			continue
		}
		if !KnownColumn(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		summary.warn(fmt.Sprintf("unknown column %q ignored", name))
	}
	return summary
}

func rowErr(line int, err error) error {
	msg := fmt.Sprintf("line %d", line)
	if typed := pkgerrors.As(err); typed != nil {
		return pkgerrors.Wrap(typed.Code(), err, msg).WithDetails(typed.Details())
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
