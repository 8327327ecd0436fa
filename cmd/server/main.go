package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	eventapp "github.com/shop/backend/internal/application/event"
	salesapp "github.com/shop/backend/internal/application/sales"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/event"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/infrastructure/telemetry"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Shop Backend API
//	@version		1.0
//	@description	Products, orders and order line items with server-maintained order totals.
//	@BasePath		/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// OTel log export tees every zap entry into the collector
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: serviceName,
		BasicAuthUser:   cfg.Profiling.BasicAuthUser,
		BasicAuthPass:   cfg.Profiling.BasicAuthPass,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	dbSystem := "postgresql"
	if db.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowQueryThresh,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	var dbMetrics *telemetry.DBMetrics
	if meterProvider.IsEnabled() {
		dbMetrics, err = telemetry.RegisterDBMetrics(db.DB, sqlDB, meterProvider.Meter("shop/db"), log)
		if err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
		}
	}

	// Domain events are published after commit to the in-process bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("shop/sales"),
			Logger: log,
		})
		if err != nil {
			log.Warn("Business metrics disabled", zap.Error(err))
		} else {
			eventBus.Subscribe(event.NewMetricsHandler(businessMetrics))
		}
	}
	dispatcher := eventapp.NewDispatcher(eventBus, log)

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	lineItemRepo := persistence.NewGormLineItemRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	reconciler := salesapp.NewReconciler()

	catalogService := catalogapp.NewCatalogService(productRepo, txScope.Catalog())
	catalogService.SetEventDispatcher(dispatcher)
	orderService := salesapp.NewOrderService(orderRepo, lineItemRepo, txScope, reconciler)
	orderService.SetEventDispatcher(dispatcher)
	lineItemService := salesapp.NewLineItemService(lineItemRepo, txScope, reconciler)
	lineItemService.SetEventDispatcher(dispatcher)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		ServiceName:    serviceName,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           middleware.DefaultCORSConfig(),
		TracingEnabled: tracerProvider.IsEnabled(),
		MeterProvider:  meterProvider,
		Profiling:      profiler.IsEnabled(),
		Idempotency: middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.HTTP.IdempotencyTTL,
			Logger: log,
		},
	}, router.Handlers{
		Product:  handler.NewProductHandler(catalogService),
		Order:    handler.NewOrderHandler(orderService),
		LineItem: handler.NewLineItemHandler(lineItemService),
		Health:   handler.NewHealthHandler(sqlDB, version),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	closeAll(shutdownCtx, log,
		closer{"idempotency store", func(context.Context) error { return idempotencyStore.Close() }},
		closer{"database", func(context.Context) error { return db.Close() }},
		closer{"profiler", func(context.Context) error { return profiler.Stop() }},
		closer{"meter provider", meterProvider.Shutdown},
		closer{"tracer provider", tracerProvider.Shutdown},
		closer{"logger provider", logProvider.Shutdown},
	)

	log.Info("Server exited gracefully")
}

type closer struct {
	name  string
	close func(context.Context) error
}

// closeAll releases resources in order, logging failures without stopping.
func closeAll(ctx context.Context, log *zap.Logger, closers ...closer) {
	for _, c := range closers {
		if err := c.close(ctx); err != nil {
			log.Error("Error closing "+c.name, zap.Error(err))
		}
	}
}
