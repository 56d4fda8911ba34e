// Entry point for REST API
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewclock.service/internal/api"
	"crewclock.service/internal/config"
	"crewclock.service/internal/core"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository"
	"crewclock.service/internal/ports/repository/memory"
	"crewclock.service/pkg/aws"
	"crewclock.service/pkg/database"
	"crewclock.service/pkg/logger"
	"crewclock.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type stores struct {
	projects repository.ProjectRepository
	workers  repository.WorkerRepository
	entries  repository.ClockEntryRepository
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer(telemetry.Options{
		ServiceName: "crewclock-api",
		Endpoint:    cfg.OTelEndpoint,
		Stdout:      cfg.IsLocalDev && cfg.OTelEndpoint == "",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	ctx := context.Background()

	var s stores
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on restart.")
		s = memoryStores()
	default:
		db, err := database.NewInstrumentedConnection(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening database")
		}
		defer db.Close()
		log.Info().Msg("Successfully connected to the database.")

		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
		s = postgresStores(db)
	}

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	producer := messaging.NewSQSProducer(sqsClient, cfg.SyncSQSQueueURL, cfg.EmailSQSQueueURL)

	router, err := newRouter(cfg, s, producer)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not build router")
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; bearer tokens are not verified.")
	}

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(logger.Middleware(router), "api")

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// newRouter builds the services over the given stores and mounts them.
func newRouter(cfg config.Config, s stores, producer messaging.QueueProducer) (http.Handler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return api.NewRouter(api.Services{
		Projects:  core.NewProjectService(s.projects),
		Workers:   core.NewWorkerService(s.workers),
		Clock:     core.NewClockService(s.entries, s.projects, producer, cfg.EnforceSelfClock),
		Views:     core.NewViewService(s.projects, s.workers, s.entries, loc),
		JWTSecret: cfg.JWTSecret,
	}), nil
}

func memoryStores() stores {
	store := memory.NewStore()
	return stores{projects: store, workers: store, entries: store}
}

func postgresStores(db *sql.DB) stores {
	return stores{
		projects: repository.NewProjectRepository(db),
		workers:  repository.NewWorkerRepository(db),
		entries:  repository.NewClockEntryRepository(db),
	}
}
