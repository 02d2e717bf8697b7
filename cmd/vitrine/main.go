package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vitrine-retail/vitrine/internal/app"
	"github.com/vitrine-retail/vitrine/internal/ledger"
	"github.com/vitrine-retail/vitrine/internal/masterdata/clients"
	"github.com/vitrine-retail/vitrine/internal/masterdata/products"
	"github.com/vitrine-retail/vitrine/internal/masterdata/suppliers"
	"github.com/vitrine-retail/vitrine/internal/observability"
	"github.com/vitrine-retail/vitrine/internal/platform/cache"
	"github.com/vitrine-retail/vitrine/internal/platform/db"
	"github.com/vitrine-retail/vitrine/internal/reconcile"
	"github.com/vitrine-retail/vitrine/internal/shared"
	"github.com/vitrine-retail/vitrine/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, views will load without caching", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	bus := shared.NewEventBus()

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, bus, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	viewCache := reconcile.NewCache(redisClient, cfg.ViewCacheTTL)
	feedRepo := reconcile.NewRepository(dbpool)
	reconcileService := reconcile.NewService(logger, feedRepo, viewCache).WithObserver(metrics)
	reconcileService.BindTo(bus)
	reconcileHandler := reconcile.NewHandler(logger, reconcileService)

	supplierHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(dbpool)))
	clientHandler := clients.NewHandler(logger, clients.NewService(clients.NewRepository(dbpool)))
	productHandler := products.NewHandler(logger, products.NewService(products.NewRepository(dbpool)))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("job client", slog.Any("error", err))
	}
	defer func() {
		if jobClient == nil {
			return
		}
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	// warm the snapshots so the first dashboard hit is served from memory
	warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := reconcileService.RefreshAll(warmCtx); err != nil {
		logger.Warn("initial view warm-up", slog.Any("error", err))
	}
	warmCancel()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		LedgerHandler:    ledgerHandler,
		ReconcileHandler: reconcileHandler,
		SupplierHandler:  supplierHandler,
		ClientHandler:    clientHandler,
		ProductHandler:   productHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
