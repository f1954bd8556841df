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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ledgerapp "github.com/voiceledger/backend/internal/application/ledger"
	notifyapp "github.com/voiceledger/backend/internal/application/notify"
	"github.com/voiceledger/backend/internal/infrastructure/auth"
	"github.com/voiceledger/backend/internal/infrastructure/config"
	"github.com/voiceledger/backend/internal/infrastructure/evidence"
	"github.com/voiceledger/backend/internal/infrastructure/logger"
	notifyinfra "github.com/voiceledger/backend/internal/infrastructure/notify"
	"github.com/voiceledger/backend/internal/infrastructure/persistence"
	"github.com/voiceledger/backend/internal/infrastructure/telemetry"
	"github.com/voiceledger/backend/internal/interfaces/http/handler"
	"github.com/voiceledger/backend/internal/interfaces/http/middleware"
	"github.com/voiceledger/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	logCfg := logger.DefaultConfig()
	if cfg.App.Env == "production" {
		logCfg = logger.ProductionConfig()
	}
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output

	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting VoiceLedger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Initialize telemetry
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Initialize database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Initialize repositories
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	ledgerStore := persistence.NewLedgerStore(db.DB, log)

	// Initialize the recording pipeline
	ceiling, err := decimal.NewFromString(cfg.Ledger.AmountCeiling)
	if err != nil {
		log.Fatal("Invalid amount ceiling", zap.String("value", cfg.Ledger.AmountCeiling), zap.Error(err))
	}
	recordService := ledgerapp.NewRecordService(ledgerStore, ceiling, cfg.Ledger.RecordTimeout, log)

	// Notification dispatch is optional; the orchestrator records entries
	// either way and only fires receipts when a dispatcher is wired.
	var dispatcher ledgerapp.PaymentDispatcher
	if cfg.Notify.Enabled {
		channel, err := notifyinfra.NewHTTPSMSChannel(&cfg.Notify, log)
		if err != nil {
			log.Fatal("Failed to initialize SMS channel", zap.Error(err))
		}
		breakerStore, err := notifyinfra.NewBreakerStoreFactory(cfg.Redis, notifyinfra.WithLogger(log)).CreateStore()
		if err != nil {
			log.Fatal("Failed to initialize breaker store", zap.Error(err))
		}
		breaker := notifyapp.NewBreaker(breakerStore, cfg.Notify.BreakerThreshold, cfg.Notify.BreakerCooldown, log)
		dispatcher = notifyapp.NewDispatcher(channel, breaker, cfg.Notify.Timeout, log)
		log.Info("Payment notifications enabled", zap.String("gateway", cfg.Notify.GatewayURL))
	} else {
		log.Info("Payment notifications disabled")
	}

	// Evidence storage degrades to a stub that never archives audio
	var evidenceStore ledgerapp.EvidenceStore
	if cfg.Evidence.Enabled {
		s3Store, err := evidence.NewS3EvidenceStore(&cfg.Evidence)
		if err != nil {
			log.Fatal("Failed to initialize evidence store", zap.Error(err))
		}
		evidenceStore = s3Store
		log.Info("Audio evidence storage enabled", zap.String("bucket", cfg.Evidence.Bucket))
	} else {
		evidenceStore = evidence.NewStubEvidenceStore()
	}

	orchestrator := ledgerapp.NewOrchestrator(
		ownerRepo,
		customerRepo,
		recordService,
		evidenceStore,
		dispatcher,
		cfg.Notify.DispatchGrace,
		log,
	)
	customerService := ledgerapp.NewCustomerService(customerRepo, transactionRepo)

	// Initialize JWT service for owner tokens
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	entryHandler := handler.NewEntryHandler(orchestrator, ceiling, log)
	customerHandler := handler.NewCustomerHandler(customerService)
	systemHandler := handler.NewSystemHandler(func(ctx context.Context) error {
		return db.Ping()
	})

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TracingAttributeInjector(),
	)

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(entryHandler).
		Register(customerHandler).
		Register(systemHandler)
	r.Setup()

	// Unversioned probes for load balancers
	systemHandler.RegisterRootRoutes(engine)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
