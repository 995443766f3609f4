package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tomashby/ramsgen/internal"
	"github.com/tomashby/ramsgen/internal/agent"
	"github.com/tomashby/ramsgen/internal/agent/mock"
	"github.com/tomashby/ramsgen/internal/agent/openai"
	"github.com/tomashby/ramsgen/internal/handler"
	"github.com/tomashby/ramsgen/internal/jobs"
	"github.com/tomashby/ramsgen/internal/metrics"
	"github.com/tomashby/ramsgen/internal/middleware"
	"github.com/tomashby/ramsgen/internal/repository"
	"github.com/tomashby/ramsgen/internal/service"
	"github.com/tomashby/ramsgen/internal/storage"
	"github.com/tomashby/ramsgen/internal/transform"
	"github.com/tomashby/ramsgen/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize object storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize agent provider
	provider, err := newAgentProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("agent provider initialization failed: %w", err)
	}
	logger.Info("Agent provider ready", "provider", cfg.AgentProvider)

	// Initialize transformer and services
	transformer := transform.New(logger)
	documentService := service.NewDocumentService(repo, store, logger)
	transformService := service.NewTransformService(transformer, logger)

	// ==========================================================================
	// Start background worker
	// ==========================================================================

	var jobWorker *worker.Worker
	if cfg.WorkerEnabled {
		workerCfg := worker.DefaultConfig()
		workerCfg.Concurrency = cfg.WorkerConcurrency
		workerCfg.PollInterval = cfg.WorkerPollInterval
		workerCfg.JobTimeout = cfg.WorkerJobTimeout

		jobWorker, err = worker.New(db, repo, workerCfg, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}
		jobWorker.Register(jobs.NewGenerateRAMSHandler(repo, provider, transformer, logger))
		jobWorker.Register(jobs.NewRenderDocumentHandler(repo, store, logger))
		jobWorker.Start(ctx)
	} else {
		logger.Warn("Worker disabled, documents will stay pending until another instance picks them up")
	}

	// Initialize handlers
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	transformHandler := handler.NewTransformHandler(transformService, logger)
	healthHandler := handler.NewHealthHandler(db, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	healthHandler.RegisterRoutes(mux)
	documentHandler.RegisterRoutes(mux)
	transformHandler.RegisterRoutes(mux)

	// Prometheus scrape endpoint, basic auth when credentials are configured
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Local storage serves rendered artifacts directly; S3 serves them itself
	if cfg.StorageProvider == storage.ProviderLocal {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Initialize middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	rateLimitMw := middleware.NewRateLimitMiddleware(rateLimiter, logger)

	chain := middleware.Stack(
		loggingMw.Handler,
		securityMw.Handler,
		metrics.Middleware,
		rateLimitMw.Limit,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: chain(mux),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Let in-flight jobs finish before exiting
	if jobWorker != nil {
		jobWorker.Stop()
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the object storage backend selected by configuration.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderS3:
		return storage.NewS3Storage(storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
			Region:          cfg.S3Region,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

// newAgentProvider builds the AI agent provider selected by configuration.
// The mock provider returns canned responses and is the default, so the
// service runs end to end without an API key.
func newAgentProvider(cfg *internal.Config, logger *slog.Logger) (agent.Provider, error) {
	switch cfg.AgentProvider {
	case "openai":
		return openai.New(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			ProviderConfig: agent.ProviderConfig{
				MaxRetries:     cfg.AgentMaxRetries,
				RetryBaseDelay: cfg.AgentRetryBaseDelay,
				RequestTimeout: cfg.AgentRequestTimeout,
			},
		}, logger)
	default:
		return mock.New(logger), nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
