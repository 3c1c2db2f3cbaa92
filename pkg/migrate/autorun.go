package migrate

import (
	"context"
	"fmt"

	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/logger"
)

// MaybeRunDev brings the schema up to date at startup when running in dev
// with LICENSETRACK_AUTO_MIGRATE on. Postgres gets the embedded goose
// migrations; sqlite is built from the models because the SQL is
// postgres-specific.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "auto-migrating sqlite schema")
		if err := client.DB().AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	logg.Info(ctx, "applying embedded migrations")
	if err := Run(WithLogger(ctx, logg), sqlDB, "", "up"); err != nil {
		return err
	}
	logg.Info(ctx, "migrations applied")
	return nil
}
