/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the UdangKu ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env / .env)
  2. Initialize logger and SQLite store
  3. Wire the event bus and ledger engines
  4. Configure HTTP router and backup scheduler
  5. Start server with graceful shutdown

CONFIGURATION (environment, optionally via .env):
  APP_PORT              HTTP server port (default: 8080)
  DB_PATH               SQLite database path (default: ./data/udangku.db)
                        Use ":memory:" for an in-memory database
  BACKUP_DIR            Directory for automatic snapshots (default: ./backups)
  BACKUP_CRON_SCHEDULE  Optional cron spec overriding the settings-derived
                        backup schedule

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the backup scheduler and close the database
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ulyafarhan/udangku/api"
	"github.com/ulyafarhan/udangku/config"
	"github.com/ulyafarhan/udangku/ledger"
	"github.com/ulyafarhan/udangku/logger"
	"github.com/ulyafarhan/udangku/store/sqlite"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	if cfg.Storage.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			log.Fatal("failed to create data directory", zap.Error(err))
		}
	}

	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Wire the engines around a shared bus.
	bus := ledger.NewBus()
	settingsSvc := ledger.NewSettingsService(store, bus)
	settings, err := settingsSvc.Get(context.Background())
	if err != nil {
		log.Fatal("failed to load settings", zap.Error(err))
	}

	stock := ledger.NewStockLedger(store, bus)
	transactions := ledger.NewTransactionEngine(store, stock, bus, settings)
	debts := ledger.NewDebtLedger(store, bus)
	customers := ledger.NewCustomerDirectory(store, bus)
	costs := ledger.NewCostLedger(store, bus)
	reports := ledger.NewReports(store)
	backup := ledger.NewBackup(store, bus)

	handler := api.NewHandler(api.Engines{
		Stock:        stock,
		Transactions: transactions,
		Debts:        debts,
		Customers:    customers,
		Costs:        costs,
		Settings:     settingsSvc,
		Reports:      reports,
		Backup:       backup,
	}, logger.Named(log, "api"))

	router := api.NewRouter(handler)

	scheduler := api.NewBackupScheduler(backup, settingsSvc, bus,
		cfg.Backup.Dir, cfg.Backup.CronOverride, logger.Named(log, "backup"))
	if err := scheduler.Start(context.Background()); err != nil {
		log.Fatal("failed to start backup scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Storage.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
