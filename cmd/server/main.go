package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	complianceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/compliance"
	farmapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/farm"
	notificationapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/notification"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/cache"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/config"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/event"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/logger"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/notify"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/scheduler"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/storage"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/telemetry"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/handler"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/middleware"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry pipelines; disabled ones fall back to no-op providers
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			baseLog.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log := providers.Logs.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AgriTrace360",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithPlugin(func(gdb *gorm.DB) error {
			return telemetry.InstrumentDB(gdb, telemetry.DBTracingConfig{
				Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
				DBSystem:        dbSystem(cfg.Database.Driver),
			}, log)
		}),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate || cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis backs cross-instance dispatch dedupe and the redis sink
	var rdb redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		rdb = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	store := cache.NewIdempotencyStore(rdb, log)
	defer func() { _ = store.Close() }()

	meter := providers.Meter.Meter(telemetry.InstrumentationName)
	metrics, err := telemetry.NewWorkflowMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create workflow metrics", zap.Error(err))
	}

	// Notification sinks
	sinks, closeSinks, err := notify.BuildSinks(cfg.Notification, rdb, log)
	if err != nil {
		log.Fatal("Failed to build notification sinks", zap.Error(err))
	}
	defer closeSinks()
	sinks = append(sinks, metrics)

	// Domain events
	bus := event.NewInMemoryEventBus(log)
	stageHandler := event.NewStageTransitionHandler(log.Named("audit"), metrics)
	bus.Subscribe(stageHandler, stageHandler.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = bus.Stop(context.Background()) }()

	archive, err := newArchive(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize document archive", zap.Error(err))
	}

	// Repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	scheduleRepo := persistence.NewGormCropScheduleRepository(db.DB)
	listingRepo := persistence.NewGormCropListingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Application services
	clock := shared.SystemClock{}
	dispatcher := notificationapp.NewDispatchService(notificationRepo, store, log,
		notificationapp.WithSinks(sinks...),
		notificationapp.WithDedupeTTL(cfg.Notification.IdempotencyTTL))
	complianceService := complianceapp.NewService(persistence.NewGormComplianceRepository(db.DB), dispatcher, clock, log)
	farmService := farmapp.NewService(scheduleRepo, listingRepo, clock, log)
	workflowService := traceapp.NewWorkflowService(traceapp.WorkflowDeps{
		Batches:      batchRepo,
		Ledger:       persistence.NewGormLotLedger(db.DB),
		Schedules:    scheduleRepo,
		CropListings: listingRepo,
		Harvests:     persistence.NewGormHarvestStore(db.DB),
		Compliance:   complianceService,
		Dispatcher:   dispatcher,
		Events:       bus,
		Archive:      archive,
		Lots:         metrics,
		Fees: traceapp.FeeDefaults{
			Components: traceability.FeeComponents{
				ProcessingFee:    cfg.Fees.ProcessingFee,
				ExportFee:        cfg.Fees.ExportFee,
				InspectionFee:    cfg.Fees.InspectionFee,
				DocumentationFee: cfg.Fees.DocumentationFee,
			},
			Currency: cfg.Fees.Currency,
		},
		Clock:  clock,
		Logger: log,
	})
	registryService := traceapp.NewRegistryService(batchRepo, clock)

	// Background expiry sweep
	jobs := scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout, Location: time.UTC}, log)
	if cfg.Scheduler.ExpirySweepEnabled {
		err := jobs.Register("expiry-sweep", cfg.Scheduler.ExpirySweepSchedule, func(ctx context.Context) error {
			res, err := workflowService.SweepExpired(ctx, cfg.Scheduler.ExpirySweepBatch)
			metrics.RecordLapsedWindows(ctx, res.StorageExpired, res.ListingsExpired)
			return err
		})
		if err != nil {
			log.Fatal("Failed to register expiry sweep", zap.Error(err))
		}
	}
	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	checks := map[string]handler.ReadinessCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
	}
	engine := router.NewEngine(router.EngineOptions{
		HTTP:           cfg.HTTP,
		Logger:         log,
		Meter:          meter,
		TracingEnabled: cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		Limiter:        limiter,
	}, router.Handlers{
		Farmer:     handler.NewFarmerHandler(farmService, workflowService),
		Warehouse:  handler.NewWarehouseHandler(workflowService),
		Compliance: handler.NewComplianceHandler(complianceService),
		Buyer:      handler.NewBuyerHandler(workflowService, registryService),
		Exporter:   handler.NewExporterHandler(workflowService, registryService),
		Regulator:  handler.NewRegulatorHandler(workflowService, registryService, clock),
		Batch:      handler.NewBatchHandler(workflowService, notificationapp.NewInboxService(notificationRepo)),
		Health:     handler.NewHealthHandler(version, checks),
	})

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
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler stop timed out", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newArchive returns the S3 archive when object storage is enabled and the
// in-process archive otherwise
func newArchive(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (traceapp.DocumentArchive, error) {
	if !cfg.Enabled {
		log.Warn("Object storage disabled, released documents are kept in memory")
		return storage.NewMemoryArchive(), nil
	}
	archive, err := storage.NewS3Archive(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Document archive ready", zap.String("bucket", archive.Bucket()))
	return archive, nil
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
