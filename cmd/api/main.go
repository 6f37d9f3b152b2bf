package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/medinasouk/storefront-backend/api/controllers"
	"github.com/medinasouk/storefront-backend/api/routes"
	"github.com/medinasouk/storefront-backend/internal/catalog"
	"github.com/medinasouk/storefront-backend/internal/proxy"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	"github.com/medinasouk/storefront-backend/pkg/config"
	"github.com/medinasouk/storefront-backend/pkg/db"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/medinasouk/storefront-backend/pkg/logger"
	"github.com/medinasouk/storefront-backend/pkg/metrics"
	"github.com/medinasouk/storefront-backend/pkg/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		backend     kvstore.Backend
		storage     controllers.Pinger
		redisClient *redis.Client
		closers     []func() error
	)
	switch cfg.Storage.NormalizedDriver() {
	case config.StorageDriverRedis:
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		backend = kvstore.NewRedisBackend(redisClient)
		storage = redisClient
	case config.StorageDriverSQLite:
		dbClient, err := db.New(ctx, cfg.SQLite, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap sqlite", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		sqliteBackend, err := kvstore.NewSQLiteBackend(dbClient)
		if err != nil {
			logg.Error(ctx, "failed to prepare sqlite state table", err)
			os.Exit(1)
		}
		backend = sqliteBackend
		storage = dbClient
	default:
		logg.Warn(ctx, "using in-memory storage, shopper state will not survive restarts")
		backend = kvstore.NewMemoryBackend()
	}

	registry := prometheus.NewRegistry()
	shopperMetrics := metrics.NewShopperMetrics(registry)

	catalogClient, err := catalog.NewClient(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to build catalog client", err)
		os.Exit(1)
	}

	manager, err := shopper.NewManager(shopper.ContainerParams{
		Bridge:           kvstore.NewBridge(backend, logg),
		Fetcher:          catalogClient,
		Logger:           logg,
		Metrics:          shopperMetrics,
		DebounceInterval: cfg.Search.DebounceInterval,
		RecentLimit:      cfg.Search.RecentQueryLimit,
		IdleTTL:          cfg.Session.IdleTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to build shopper manager", err)
		os.Exit(1)
	}
	go manager.SweepLoop(ctx, cfg.Session.IdleTTL/2)

	forwarder, err := proxy.NewForwarder(cfg.Backend, logg, shopperMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build backend forwarder", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.NormalizedDriver(),
	})
	logg.Info(startCtx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, manager, storage, redisClient, forwarder, registry),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	for _, closeFn := range closers {
		closeErr = multierr.Append(closeErr, closeFn())
	}
	if closeErr != nil {
		logg.Error(startCtx, "error closing storage", closeErr)
	}
}
