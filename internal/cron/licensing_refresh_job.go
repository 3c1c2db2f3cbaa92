package cron

import (
	"context"
	"fmt"

	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// LicensingRefreshJobParams configures the nightly licensing re-import.
type LicensingRefreshJobParams struct {
	Logger   *logger.Logger
	Salesmen salesmanLister
	Importer licensingImporter
}

type salesmanLister interface {
	ListActiveIDs(ctx context.Context, withNPN bool) ([]uuid.UUID, error)
}

type licensingImporter interface {
	Import(ctx context.Context, salesmanID uuid.UUID) (*licensing.ImportSummary, error)
}

// NewLicensingRefreshJob re-imports licensing data for every active salesman
// with an NPN.
func NewLicensingRefreshJob(params LicensingRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Salesmen == nil {
		return nil, fmt.Errorf("salesman lister required")
	}
	if params.Importer == nil {
		return nil, fmt.Errorf("licensing importer required")
	}
	return &licensingRefreshJob{
		logg:     params.Logger,
		salesmen: params.Salesmen,
		importer: params.Importer,
	}, nil
}

type licensingRefreshJob struct {
	logg     *logger.Logger
	salesmen salesmanLister
	importer licensingImporter
}

func (j *licensingRefreshJob) Name() string { return "licensing-refresh" }

// Run imports salesmen one at a time. A failed salesman does not stop the
// loop; all failures are combined into the returned error.
func (j *licensingRefreshJob) Run(ctx context.Context) error {
	ids, err := j.salesmen.ListActiveIDs(ctx, true)
	if err != nil {
		return fmt.Errorf("list salesmen: %w", err)
	}

	var errs error
	imported := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		if _, err := j.importer.Import(ctx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("salesman %s: %w", id, err))
			continue
		}
		imported++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"salesmen": len(ids),
		"imported": imported,
		"failed":   len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "licensing refresh loop complete")
	return errs
}
