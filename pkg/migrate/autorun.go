package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// MaybeRun applies pending migrations at boot when a SQL storage driver is
// configured and CART_DB_AUTO_MIGRATE is set.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, dir string) error {
	if !cfg.Storage.Driver.IsSQL() || !cfg.DB.AutoMigrate {
		return nil
	}

	dialect, err := Dialect(client.Driver())
	if err != nil {
		return err
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": dir, "dialect": dialect})
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, dialect, dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
