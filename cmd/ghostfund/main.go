package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ghostfund/internal/amqp"
	"ghostfund/internal/config"
	apphttp "ghostfund/internal/http"
	applog "ghostfund/internal/log"
	"ghostfund/internal/services"
	"ghostfund/internal/sheets"
	gsheet "ghostfund/internal/sheets/google"
	"ghostfund/internal/sheets/memory"
	"ghostfund/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose ledger store backend
	var store services.LedgerStore
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store = memory.New()
		logger.Info("Initialized memory backend")
	}

	// AMQP publisher is optional; uploads still work when the broker is down.
	var publisher services.SyncPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, ledger mirror sync disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	loc, err := cfg.ReportLocation()
	if err != nil {
		logger.Error("Failed to load report timezone", "error", err, "timezone", cfg.ReportTimezone)
		os.Exit(1)
	}

	ingest := services.NewIngestService(store, publisher)
	reports := services.NewReportService(store, loc)

	// Optional contacts-sheet fallback for uploads without a CSV part.
	var contactReader sheets.ContactReader
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("Contacts sheet unavailable, CSV upload required", "error", err)
		} else {
			contactReader = cli
			logger.Info("Contacts sheet fallback enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, ingest, reports, contactReader)

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting ghostfund server", "port", cfg.Port, "backend", cfg.DataBackend, "timezone", cfg.ReportTimezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
