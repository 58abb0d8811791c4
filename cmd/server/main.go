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
	"go.uber.org/zap"

	apcmsapp "github.com/Klabsprojects/rcs-dashboard-api/internal/application/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/config"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/metrics"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence/models"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/telemetry"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/handler"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/middleware"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/router"
)

// main wires configuration, storage and the HTTP server, then blocks until
// SIGINT or SIGTERM.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logCfg := logger.ConfigForEnvironment(cfg.App.Env)
	logCfg.Level = cfg.Log.Level
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting APCMS API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("driver", cfg.Database.Driver),
	)

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Local sqlite databases are created on the fly. Server databases are
	// provisioned by deployment, including the natural key indexes.
	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        cfg.Database.Driver,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Metrics
	m := metrics.New("apcms")
	if sqlDB, err := db.SQLDB(); err == nil {
		if err := m.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	// Application wiring
	repo := persistence.NewGormRecordRepository(db.DB)
	resolver := upsert.NewResolver(repo, upsert.WithObserver(m))
	apcmsService := apcmsapp.NewService(repo, resolver)

	apcmsHandler := handler.NewAPCMSHandler(apcmsService,
		handler.WithInternalErrorsHidden(cfg.IsProduction()),
	)
	healthHandler := handler.NewHealthHandler(db)

	engine := newEngine(cfg, log, m)

	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled {
		metricsHandler = m.Handler()
	}
	router.PublicRoutes(engine, healthHandler, metricsHandler)

	apiKey := middleware.APIKey(middleware.APIKeyConfig{
		Key:    cfg.Auth.APIKey,
		Header: cfg.Auth.HeaderKey,
	})
	router.NewRouter(engine, router.WithBasePath(cfg.HTTP.BasePath)).
		Register(router.APCMSRoutes(apcmsHandler, apiKey)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine and the global middleware stack.
func newEngine(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id must exist before the span and the
	// access log read it.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAnnotator())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(m.GinMiddleware())
	engine.Use(middleware.Secure())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
		AllowAll:     !cfg.IsProduction(),
	})
	if cors != nil {
		engine.Use(cors)
	}

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	return engine
}
