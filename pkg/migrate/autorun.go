package migrate

import (
	"context"
	"fmt"

	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

// MaybeRunDev prepares the schema automatically when the feature flag is
// enabled. Postgres runs the goose migrations in dev only; SQLite is always
// built from the models since the SQL files are Postgres specific.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.DB.Driver == config.DriverSQLite {
		return AutoMigrate(ctx, logg, client)
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	runner, err := NewRunner(sqlDB, "", logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "applying embedded migrations (dev auto-run)")
	if err := runner.Up(ctx); err != nil {
		return err
	}
	version, err := runner.Version(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "version", version), "migrations complete")
	return nil
}

// AutoMigrate creates or updates every table from the GORM models.
func AutoMigrate(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	logg.Info(logg.WithField(ctx, "driver", client.DB().Dialector.Name()), "auto-migrating models")
	if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
