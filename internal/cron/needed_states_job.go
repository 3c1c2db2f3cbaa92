package cron

import (
	"context"
	"fmt"

	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type NeededStatesJobParams struct {
	Logger   *logger.Logger
	Salesmen salesmanLister
	Updater  neededStatesUpdater
}

type neededStatesUpdater interface {
	AddNeededStates(ctx context.Context, salesmanID uuid.UUID) (string, error)
}

// NewNeededStatesJob recomputes needed_states for every active salesman.
func NewNeededStatesJob(params NeededStatesJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Salesmen == nil {
		return nil, fmt.Errorf("salesman lister required")
	}
	if params.Updater == nil {
		return nil, fmt.Errorf("needed states updater required")
	}
	return &neededStatesJob{logg: params.Logger, salesmen: params.Salesmen, updater: params.Updater}, nil
}

type neededStatesJob struct {
	logg     *logger.Logger
	salesmen salesmanLister
	updater  neededStatesUpdater
}

func (j *neededStatesJob) Name() string { return "needed-states" }

func (j *neededStatesJob) Run(ctx context.Context) error {
	ids, err := j.salesmen.ListActiveIDs(ctx, false)
	if err != nil {
		return fmt.Errorf("list salesmen: %w", err)
	}
	var errs error
	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		if _, err := j.updater.AddNeededStates(ctx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("salesman %s: %w", id, err))
			continue
		}
		updated++
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{"salesmen": len(ids), "updated": updated}), "needed states loop complete")
	return errs
}
