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

	"github.com/lindolmap/geoevents/internal/adapter/eonet"
	"github.com/lindolmap/geoevents/internal/adapter/phivolcs"
	"github.com/lindolmap/geoevents/internal/adapter/usgs"
	"github.com/lindolmap/geoevents/internal/aggregate"
	"github.com/lindolmap/geoevents/internal/api"
	"github.com/lindolmap/geoevents/internal/config"
	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

func main() {
	// A .env file is a local-development convenience; deployments set real
	// environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regional, err := phivolcs.New(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to configure regional catalog", "error", err, "mode", cfg.ExecutionMode)
		os.Exit(1)
	}
	logger.Info("regional catalog configured", "mode", cfg.ExecutionMode)

	catalog := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, domain.PhilippineBBox, logger, metrics)
	volcanoes := eonet.NewClient(cfg.EONETBaseURL, cfg.EONETTimeout, logger, metrics)

	aggregator := aggregate.New(regional, catalog, volcanoes, logger, metrics)
	srv := api.NewServer(cfg.HTTPAddr, aggregator, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
