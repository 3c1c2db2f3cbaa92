// Package migrate applies and authors the goose SQL migrations for the
// postgres schema. The migration files are embedded so deployed binaries do
// not depend on the source tree.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/agentops/licensetrack/pkg/logger"
)

const (
	// DefaultDir is where new migrations are written and validated.
	DefaultDir = "pkg/migrate/migrations"

	// Dialect is the goose dialect the SQL migrations are written for.
	Dialect = "postgres"

	embeddedDir = "migrations"
)

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// Embedded returns the compiled-in migration files rooted at their directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Run executes a goose command such as up, down or status. An empty dir uses
// the embedded migrations; any other dir is read from disk.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	return withGoose(ctx, dir, func(source string) error {
		if err := goose.RunContext(ctx, command, db, source, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion moves the schema up or down to exactly targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	if db == nil {
		return fmt.Errorf("db is required")
	}

	return withGoose(ctx, dir, func(source string) error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, source, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
		default:
			if err := goose.DownToContext(ctx, db, source, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
		}
		return nil
	})
}

func withGoose(ctx context.Context, dir string, fn func(source string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(Dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	source := dir
	if dir == "" {
		goose.SetBaseFS(embedded)
		source = embeddedDir
	} else {
		goose.SetBaseFS(nil)
	}
	defer goose.SetBaseFS(nil)

	if logg := loggerFrom(ctx); logg != nil {
		goose.SetLogger(gooseLogger{ctx: ctx, logg: logg})
		defer goose.SetLogger(log.New(os.Stdout, "", log.LstdFlags))
	}
	return fn(source)
}

type loggerKey struct{}

// WithLogger makes goose progress lines go to logg for calls made with ctx.
func WithLogger(ctx context.Context, logg *logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logg)
}

func loggerFrom(ctx context.Context) *logger.Logger {
	logg, _ := ctx.Value(loggerKey{}).(*logger.Logger)
	return logg
}

type gooseLogger struct {
	ctx  context.Context
	logg *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.logg.Info(g.ctx, fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.logg.Error(g.ctx, "goose.fatal", fmt.Errorf(format, v...))
}
