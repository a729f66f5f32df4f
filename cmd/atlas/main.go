package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/volcano-atlas/internal/adapter/filestore"
	httpadapter "github.com/couchcryptid/volcano-atlas/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/volcano-atlas/internal/adapter/kafka"
	"github.com/couchcryptid/volcano-atlas/internal/config"
	"github.com/couchcryptid/volcano-atlas/internal/observability"
	"github.com/couchcryptid/volcano-atlas/internal/pipeline"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := filestore.NewLoader(cfg.LoaderCacheSize, logger, metrics)

	// Snapshot export is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var sink pipeline.SnapshotLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("snapshot export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot export disabled")
	}

	p := pipeline.New(loader, sink, logger, metrics, pipeline.Options{
		VolcanoPath:  cfg.VolcanoDataPath,
		GeometryPath: cfg.CountryGeometryPath,
		MapStyle:     cfg.MapStyle,
	})

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:               cfg.HTTPAddr,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPM:       cfg.RateLimitRPM,
	}, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. /readyz reports 503 until the dataset is loaded.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	exitCode := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("dataset load failed", "error", err,
			"volcanoes", cfg.VolcanoDataPath, "geometry", cfg.CountryGeometryPath)
		exitCode = 1
		stop()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
