package main

import (
	"context"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"linguaflow/internal/azureai"
	"linguaflow/internal/config"
	"linguaflow/internal/database"
	"linguaflow/internal/database/migration"
	"linguaflow/internal/extract"
	handlers "linguaflow/internal/http/handler"
	"linguaflow/internal/http/middleware"
	"linguaflow/internal/otel"
	"linguaflow/internal/pipeline"
	"linguaflow/internal/repository/postgres"
	"linguaflow/internal/storage"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "linguaflow").Logger()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Wire the pipeline: Azure clients, document extractor, run history.
	runRepo := postgres.NewRunPostgres(db)
	transcriber := azureai.NewWhisperClient(cfg.Whisper, log)
	translator := azureai.NewTranslatorClient(cfg.Translator, log)
	extractor := extract.NewExtractor(extract.DocconvExtractor{}, log)
	svc := pipeline.NewService(transcriber, translator, extractor, objStore, runRepo, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Uploads are capped at 25MB by validation; leave headroom for the
		// multipart envelope.
		BodyLimit: 30 * 1024 * 1024,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMW.Handler())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc, validator.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting server")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
