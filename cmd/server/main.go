package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatmood/backend/internal/models"
	"chatmood/backend/pkg/config"
	"chatmood/backend/pkg/di"
	"chatmood/backend/pkg/logger"
	"chatmood/backend/pkg/router"
	pkgws "chatmood/backend/pkg/ws"
	"chatmood/backend/shared/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	// Set log level from environment if available
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	// Set log format from environment if available
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"))

	cfg := config.New()

	// Tracing and metrics; /metrics is served on its own port
	shutdownTracing := observability.SetupTracing("analysis-api")
	defer shutdownTracing()
	_ = observability.SetupPrometheusMetrics()

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.Analysis{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Initialize dependency injection container
	diConfig := di.DefaultConfig()
	diConfig.LoggerConfig = logConfig

	container, err := di.New(db, diConfig)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Start periodic health checks
	container.Health.Start()

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Warm the sentiment model in the background; uploads arriving before
	// it is ready get MODEL_NOT_READY rather than blocking. Clients can
	// watch the warm-up on the "model" progress channel.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Model.Timeout)
		defer cancel()

		err := container.Bridge.Initialize(ctx, func(p models.Progress) {
			r.Hub.Publish(pkgws.ProgressEvent{
				AnalysisID: "model",
				Current:    p.Current,
				Total:      p.Total,
				Status:     p.Status,
			})
		})
		if err != nil {
			log.LogError(err, "Sentiment model warm-up failed; will stay unavailable until restart")
		}
	}()

	// Get port from environment
	port := cfg.Server.Port

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
