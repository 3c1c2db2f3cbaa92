package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/metrics"
)

const defaultInterval = 24 * time.Hour

// ErrLockLost aborts a cycle whose lease could not be renewed between jobs.
var ErrLockLost = errors.New("cron lock lost during cycle")

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service runs every registered job, in order, once per interval. A cycle
// only starts after the lock is won, so at most one worker runs it.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
	now      func() time.Time
}

// JobResult is the outcome of one job within a cycle.
type JobResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// CycleReport describes one locked cycle. Skipped is set when another worker
// held the lock.
type CycleReport struct {
	StartedAt time.Time
	Skipped   bool
	Jobs      []JobResult
}

// Err combines every job failure of the cycle.
func (r *CycleReport) Err() error {
	if r == nil {
		return nil
	}
	var errs error
	for _, job := range r.Jobs {
		if job.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name, job.Err))
		}
	}
	return errs
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Run executes a cycle immediately and then on every tick until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.logCycle(ctx)
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) logCycle(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logg.Error(ctx, "scheduled run failed", err)
		return
	}
	if jobErr := report.Err(); jobErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "failed_jobs", len(multierr.Errors(jobErr))), "scheduled run finished with failures")
	}
}

// RunOnce runs a single locked cycle. The returned error covers locking and
// cancellation only; job failures are carried in the report.
func (s *Service) RunOnce(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{StartedAt: s.now()}

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return report, fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "cron lock held elsewhere, skipping cycle")
		report.Skipped = true
		return report, nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	s.logg.Info(s.logg.WithField(ctx, "jobs", s.registry.Names()), "scheduled run starting")
	for i, job := range s.registry.Jobs() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 {
			if err := s.extendLock(ctx); err != nil {
				return report, err
			}
		}
		report.Jobs = append(report.Jobs, s.runJob(ctx, job))
	}
	s.logg.Info(ctx, "scheduled run complete")
	return report, nil
}

func (s *Service) extendLock(ctx context.Context) error {
	ext, ok := s.lock.(Extender)
	if !ok {
		return nil
	}
	held, err := ext.Extend(ctx)
	if err != nil {
		return fmt.Errorf("lock extend: %w", err)
	}
	if !held {
		return ErrLockLost
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) JobResult {
	name := job.Name()
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": name, "event": "cron.job"})
	s.logg.Info(jobCtx, "job start")

	start := s.now()
	err := job.Run(jobCtx)
	duration := s.now().Sub(start)
	s.metrics.ObserveDuration(name, duration)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(name)
	} else {
		s.logg.Info(jobCtx, "job completed")
		s.metrics.IncSuccess(name)
	}
	return JobResult{Name: name, Duration: duration, Err: err}
}
