package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/application/importer"
	"github.com/commercehub/catalog-sync/internal/domain/importrun"
	"github.com/commercehub/catalog-sync/internal/infrastructure/config"
	"github.com/commercehub/catalog-sync/internal/infrastructure/d365"
	"github.com/commercehub/catalog-sync/internal/infrastructure/logger"
	"github.com/commercehub/catalog-sync/internal/infrastructure/persistence"
)

// Runs a single catalog import and exits. Intended for cron jobs and manual
// backfills; the server binary runs the same import on its own schedule.
func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum duration of the import run")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Initialize stores
	itemStore := persistence.NewGormItemStore(db.DB)
	catalogStore := persistence.NewGormCatalogStore(db.DB)
	runRepo := persistence.NewGormRunRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize Dynamics 365 client
	erpConfig := d365.NewConfig(cfg.ERP.BaseURL, cfg.ERP.TokenURL, cfg.ERP.ClientID, cfg.ERP.ClientSecret)
	erpConfig.CustomerAccount = cfg.ERP.CustomerAccount
	if cfg.ERP.TimeoutSeconds > 0 {
		erpConfig.TimeoutSeconds = cfg.ERP.TimeoutSeconds
	}
	erpClient, err := d365.NewClient(erpConfig, log)
	if err != nil {
		log.Fatal("Failed to configure ERP client", zap.Error(err))
	}

	applier := importer.NewApplier(txScope, log)
	importService := importer.NewService(
		erpClient,
		itemStore,
		catalogStore,
		applier,
		runRepo,
		importer.Config{
			CurrencyCode:       cfg.Import.CurrencyCode,
			DefaultCatalogName: cfg.Import.DefaultCatalogName,
		},
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	run, err := importService.RunImport(ctx)
	if err != nil {
		log.Error("Import run failed", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}

	log.Info("Import run finished",
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
		zap.Int("categories_fetched", run.Categories.Fetched),
		zap.Int("items_fetched", run.SellableItems.Fetched),
	)
	if run.Status != importrun.StatusCompleted {
		_ = logger.Sync(log)
		os.Exit(1)
	}
}
