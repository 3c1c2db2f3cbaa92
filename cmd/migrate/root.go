package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/migrate"
)

type runtime struct {
	out io.Writer
	dir string
	// open returns a connection for goose and a closer for it.
	open func(ctx context.Context) (*sql.DB, func() error, error)
	run  func(ctx context.Context, sqlDB *sql.DB, dir, command string) error
	to   func(ctx context.Context, sqlDB *sql.DB, dir, version string) error
}

func defaultRuntime() *runtime {
	return &runtime{
		out:  os.Stdout,
		open: openDB,
		run: func(ctx context.Context, sqlDB *sql.DB, dir, command string) error {
			return migrate.Run(ctx, sqlDB, dir, command)
		},
		to: migrate.MigrateToVersion,
	}
}

func newRootCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the licensetrack postgres schema with goose",
		SilenceUsage: true,
	}
	cmd.SetOut(rt.out)
	cmd.PersistentFlags().StringVar(&rt.dir, "dir", "", "migrations directory; goose commands default to the embedded set, create and validate to "+migrate.DefaultDir)

	cmd.AddCommand(
		newGooseCmd(rt, "up", "Apply all pending migrations"),
		newGooseCmd(rt, "down", "Roll back the latest migration"),
		newGooseCmd(rt, "status", "Print applied and pending migrations"),
		newVersionCmd(rt),
		newCreateCmd(rt),
		newValidateCmd(rt),
	)
	return cmd
}

func newGooseCmd(rt *runtime, command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				return rt.run(cmd.Context(), sqlDB, rt.dir, command)
			})
		},
	}
}

func newVersionCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version <YYYYMMDDHHMMSS>",
		Short: "Migrate up or down to an exact version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				return rt.to(cmd.Context(), sqlDB, rt.dir, args[0])
			})
		},
	}
}

func newCreateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Write a new empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.CreateSQLMigration(rt.sourceDir(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		},
	}
}

func newValidateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check migration filenames and goose annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrate.ValidateDir(rt.sourceDir()); err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		},
	}
}

// sourceDir is the on-disk directory for authoring commands.
func (rt *runtime) sourceDir() string {
	if rt.dir == "" {
		return migrate.DefaultDir
	}
	return rt.dir
}

func (rt *runtime) withDB(ctx context.Context, fn func(*sql.DB) error) (err error) {
	sqlDB, closeFn, err := rt.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeFn != nil {
			err = errors.Join(err, closeFn())
		}
	}()
	return fn(sqlDB)
}

func openDB(ctx context.Context) (*sql.DB, func() error, error) {
	logg := logger.New(logger.Options{ServiceName: "migrate", Output: os.Stderr})
	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.IsSQLite() {
		return nil, nil, fmt.Errorf("goose migrations target postgres; sqlite schemas are auto-migrated")
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap database: %w", err)
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("sql database: %w", err), client.Close())
	}
	logg.Info(ctx, "migrate ready")
	return sqlDB, client.Close, nil
}
