package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thermaldesk/heatload-service/internal/adapter/climate"
	httpadapter "github.com/thermaldesk/heatload-service/internal/adapter/http"
	kafkaadapter "github.com/thermaldesk/heatload-service/internal/adapter/kafka"
	"github.com/thermaldesk/heatload-service/internal/config"
	"github.com/thermaldesk/heatload-service/internal/domain"
	"github.com/thermaldesk/heatload-service/internal/observability"
	"github.com/thermaldesk/heatload-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize the site resolver (feature-flagged via CLIMATE_ENABLED).
	// Without it, documents must carry embedded climate data.
	var resolver domain.SiteResolver
	if cfg.ClimateEnabled {
		client := climate.NewClient(cfg.ClimateAPIURL, cfg.ClimateTimeout, metrics, logger)
		resolver = climate.NewCachedResolver(client, cfg.ClimateCacheSize, metrics)
		metrics.ClimateEnabled.Set(1)
		logger.Info("climate service enabled",
			"url", cfg.ClimateAPIURL,
			"cache_size", cfg.ClimateCacheSize,
			"timeout", cfg.ClimateTimeout,
		)
	} else {
		logger.Info("climate service disabled, documents need embedded climate data")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	calculator := pipeline.NewCalculator(resolver, logger)

	p := pipeline.New(reader, calculator, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, calculator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start calculation pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
