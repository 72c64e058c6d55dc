package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// backend is the storage wiring selected by CART_STORAGE_DRIVER.
type backend struct {
	state     cartsvc.StateStore
	snapshots *cartsvc.SnapshotRepository
	readiness []controllers.ReadinessCheck
	closers   []func() error
}

func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case enums.StorageDriverMemory:
		logg.Warn(ctx, "memory storage driver: carts are lost on restart")
		return &backend{state: cartsvc.NewMemoryStateStore()}, nil

	case enums.StorageDriverRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return &backend{
			state:     cartsvc.NewRedisStateStore(redisClient, cfg.Storage.TTL),
			readiness: []controllers.ReadinessCheck{{Name: "redis", Pinger: redisClient}},
			closers:   []func() error{redisClient.Close},
		}, nil

	case enums.StorageDriverSQLite, enums.StorageDriverPostgres:
		dbClient, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, dbClient, migrate.DefaultDir); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), dbClient.Close())
		}
		snapshots := cartsvc.NewSnapshotRepository(dbClient.DB())
		return &backend{
			state:     snapshots,
			snapshots: snapshots,
			readiness: []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}},
			closers:   []func() error{dbClient.Close},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// Close releases every backend connection and reports all failures together.
func (b *backend) Close() error {
	var err error
	for _, closeFn := range b.closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
