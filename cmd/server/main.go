package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/application/importer"
	"github.com/commercehub/catalog-sync/internal/application/pricing"
	"github.com/commercehub/catalog-sync/internal/infrastructure/config"
	"github.com/commercehub/catalog-sync/internal/infrastructure/d365"
	"github.com/commercehub/catalog-sync/internal/infrastructure/logger"
	"github.com/commercehub/catalog-sync/internal/infrastructure/persistence"
	"github.com/commercehub/catalog-sync/internal/infrastructure/scheduler"
	"github.com/commercehub/catalog-sync/internal/infrastructure/telemetry"
	"github.com/commercehub/catalog-sync/internal/interfaces/http/handler"
	"github.com/commercehub/catalog-sync/internal/interfaces/http/middleware"
	"github.com/commercehub/catalog-sync/internal/interfaces/http/router"
)

func main() {
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

	log.Info("Starting Catalog Sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
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
	log.Info("Database connected successfully")

	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

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

	// Initialize services
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
	pricingService := pricing.NewService(erpClient, cfg.Import.CurrencyCode, log)

	// Initialize import trigger (if enabled)
	triggerConfig := scheduler.DefaultImportTriggerConfig()
	if cfg.Scheduler.Interval > 0 {
		triggerConfig.Interval = cfg.Scheduler.Interval
	}
	if cfg.Scheduler.RunTimeout > 0 {
		triggerConfig.RunTimeout = cfg.Scheduler.RunTimeout
	}
	trigger := scheduler.NewImportTrigger(triggerConfig, importService, log)
	if cfg.Scheduler.Enabled {
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start import trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping import trigger", zap.Error(err))
			}
		}()
		log.Info("Import trigger started",
			zap.Duration("interval", cfg.Scheduler.Interval),
			zap.Duration("run_timeout", cfg.Scheduler.RunTimeout),
		)
	}

	// Initialize HTTP handlers
	importRunHandler := handler.NewImportRunHandler(trigger, runRepo)
	pricingHandler := handler.NewPricingHandler(pricingService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.App.Name))
		engine.Use(middleware.TraceRequestID())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(importRunHandler).
		Register(pricingHandler).
		Register(systemHandler)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
