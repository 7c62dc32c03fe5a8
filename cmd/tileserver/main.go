// Command tileserver serves MRMS meteorological grids as Web Mercator PNG
// tiles. Grids load on demand over HTTP or, when enabled, from Kafka
// file-available notifications.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/msimp2/GaugeVsQPE/internal/adapter/gribfile"
	"github.com/msimp2/GaugeVsQPE/internal/adapter/httpapi"
	"github.com/msimp2/GaugeVsQPE/internal/adapter/kafkaingest"
	"github.com/msimp2/GaugeVsQPE/internal/config"
	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/ingest"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
	"github.com/msimp2/GaugeVsQPE/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := domain.NewGridStore()
	tileCache, err := render.NewTileCache(cfg.TileCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create tile cache", "error", err)
		os.Exit(1)
	}
	renderer := render.NewRenderer(metrics, cfg.RenderConcurrency)
	tiles := render.NewService(store, renderer, tileCache)

	decoder := gribfile.NewDecoder(cfg.GribDir)
	loader := ingest.NewLoader(decoder, store, tiles, logger, metrics)
	ready := ingest.NewReadiness(store, cfg.KafkaEnabled)

	srv := httpapi.NewServer(cfg.HTTPAddr, tiles, loader, store, ready, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Kafka ingest is feature-flagged; the HTTP load endpoint always works.
	var consumer *kafkaingest.Consumer
	if cfg.KafkaEnabled {
		consumer = kafkaingest.NewConsumer(cfg, loader, logger, metrics)
		logger.Info("kafka ingest enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic, "group_id", cfg.KafkaGroupID)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("kafka ingest error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka ingest disabled")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
