package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-cart/api/routes"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/internal/cron"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/instance"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"storage":  cfg.Storage.Driver.String(),
		"instance": instance.GetID(),
	})

	storage, err := openBackend(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(context.Background(), "error closing cart storage", err)
		}
	}()

	products, err := catalog.LoadFile(cfg.Cart.CatalogPath)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "products", products.Len()), "catalog loaded")

	cartMetrics := metrics.NewCartMetrics(prometheus.DefaultRegisterer)
	sessions := cartsvc.NewRegistry(storage.state, cartsvc.RegistryConfig{
		Options:    cartsvc.OptionsFromConfig(cfg.Cart),
		StorageKey: cfg.Cart.StorageKey,
		Timeout:    cfg.Storage.Timeout,
	}, logg, cartMetrics)

	if cfg.Jobs.Enabled {
		housekeeping, err := newHousekeeping(cfg, logg, sessions, storage)
		if err != nil {
			logg.Error(ctx, "failed to create housekeeping service", err)
			os.Exit(1)
		}
		go func() {
			if err := housekeeping.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "housekeeping stopped unexpectedly", err)
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, sessions, products, prometheus.DefaultGatherer, storage.readiness...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting cart api server")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "cart api server stopped unexpectedly", err)
			stop()
			_ = storage.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down cart api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}

func newHousekeeping(cfg *config.Config, logg *logger.Logger, sessions *cartsvc.Registry, storage *backend) (*cron.Service, error) {
	registry := cron.NewRegistry()

	eviction, err := cron.NewSessionEvictionJob(cron.SessionEvictionJobParams{
		Logger:   logg,
		Sessions: sessions,
		IdleTTL:  cfg.Jobs.SessionIdleTTL,
	})
	if err != nil {
		return nil, err
	}
	registry.Register(eviction)

	// Redis expires keys on its own; SQL snapshots need an explicit sweep.
	if storage.snapshots != nil && cfg.Storage.TTL > 0 {
		retention, err := cron.NewSnapshotRetentionJob(cron.SnapshotRetentionJobParams{
			Logger:     logg,
			Repository: storage.snapshots,
			Retention:  cfg.Storage.TTL,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(retention)
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Jobs.Interval,
	})
}
