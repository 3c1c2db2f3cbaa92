package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agentops/licensetrack/internal/app"
	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/migrate"
)

// session is an open set of services for one command invocation.
type session struct {
	roster    roster.Service
	licensing licensing.Service
	close     func() error
}

type runtime struct {
	out  io.Writer
	open func(ctx context.Context) (*session, error)
}

func defaultRuntime() *runtime {
	return &runtime{out: os.Stdout, open: openSession}
}

func newRootCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Load salesman rosters and producer licensing data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetOut(rt.out)
	cmd.AddCommand(newRosterCmd(rt), newLicensingCmd(rt))
	return cmd
}

func openSession(ctx context.Context) (*session, error) {
	logg := logger.New(logger.Options{ServiceName: "rosterctl", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logg = logger.New(logger.Options{
		ServiceName: "rosterctl",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return nil, errors.Join(fmt.Errorf("dev migrations: %w", err), dbClient.Close())
	}

	services, err := app.BuildServices(cfg, logg, dbClient, nil)
	if err != nil {
		return nil, errors.Join(err, dbClient.Close())
	}

	return &session{
		roster:    services.Roster,
		licensing: services.Licensing,
		close:     dbClient.Close,
	}, nil
}

// withSession opens services, runs fn and closes them.
func (rt *runtime) withSession(ctx context.Context, fn func(*session) error) (err error) {
	s, err := rt.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if s.close != nil {
			if cerr := s.close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()
	return fn(s)
}
