package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/dataframe"
	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/export"
	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/squirrel-census-etl/internal/adapter/kafka"
	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/couchcryptid/squirrel-census-etl/internal/menu"
	"github.com/couchcryptid/squirrel-census-etl/internal/observability"
	"github.com/couchcryptid/squirrel-census-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// The menu may be blocked reading stdin; a second interrupt exits.
		stop()
		logger.Info("interrupt received, exiting after the current prompt")
	}()

	clock := clockwork.NewRealClock()
	store := filestore.New(cfg, logger)

	var exporters []pipeline.Exporter
	if cfg.ExportJSON {
		exporters = append(exporters, export.NewJSONExporter(store.Path(export.JSONFile), logger))
	}
	if cfg.ExportGeoJSON {
		exporters = append(exporters, export.NewGeoJSONExporter(store.Path(export.GeoJSONFile), logger))
	}
	if cfg.ExportXLSX {
		exporters = append(exporters, export.NewXLSXExporter(store.Path(export.XLSXFile), logger))
	}

	var db *sqlite.Exporter
	if cfg.SQLitePath != "" {
		db, err = sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("failed to open sqlite database", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		exporters = append(exporters, db)
		logger.Info("sqlite export enabled", "path", cfg.SQLitePath)
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, clock, logger)
		exporters = append(exporters, publisher)
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	p := pipeline.New(store, store, dataframe.NewInspector(logger), logger, metrics, pipeline.Options{
		Normalize: domain.NormalizeOptions{RetainGeometry: cfg.RetainGeometry},
		Exporters: exporters,
		Clock:     clock,
	})

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, metrics.Registry(), store, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	if err := menu.New(p, os.Stdin, os.Stdout, cfg.OutputDir).Run(ctx); err != nil {
		logger.Error("menu error", "error", err)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("sqlite close error", "error", err)
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
		}
	}
}
