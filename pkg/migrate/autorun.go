package migrate

import (
	"context"
	"fmt"

	"github.com/daniyalishaq1/data-aggregator/pkg/config"
	"github.com/daniyalishaq1/data-aggregator/pkg/db"
	"github.com/daniyalishaq1/data-aggregator/pkg/db/models"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in
// dev mode and the feature flag is enabled. The sqlite mode has no goose
// migrations; it relies on GORM's schema derivation instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.DB.AutoMigrate {
		return nil
	}

	if cfg.DB.UseSQLite {
		logg.Info(ctx, "running GORM auto-migration (sqlite)")
		return client.DB().AutoMigrate(
			&models.Upload{},
			&models.UploadDetail{},
			&models.UploadKeyword{},
		)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
