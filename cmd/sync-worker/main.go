package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"crewclock.service/internal/config"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository"
	"crewclock.service/internal/worker"
	"crewclock.service/internal/worker/clocksync"
	"crewclock.service/internal/worker/payroll"
	"crewclock.service/pkg/aws"
	"crewclock.service/pkg/database"
	"crewclock.service/pkg/logger"
	"crewclock.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer(telemetry.Options{
		ServiceName: "crewclock-sync-worker",
		Endpoint:    cfg.OTelEndpoint,
		Stdout:      cfg.IsLocalDev && cfg.OTelEndpoint == "",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	repo := repository.NewClockEntryRepository(db)
	producer := messaging.NewSQSProducer(sqsClient, cfg.SyncSQSQueueURL, cfg.EmailSQSQueueURL)
	processor := clocksync.NewProcessor(repo, payroll.NewHTTPClient(cfg.PayrollAPIURL), producer)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.SyncSQSQueueURL, processor)
	app.Concurrency = cfg.WorkerConcurrency

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling.
	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
