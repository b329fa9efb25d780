package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	apphttp "ledger/internal/http"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backend := cli.InitBackend(context.Background(), logger, cfg)
	store := ledger.NewStore(backend.Store, cfg.LedgerKey, logger)

	// The change notifier is optional; the API works without a broker.
	var notifier services.Notifier
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			amqpClient = client
			notifier = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	m := metrics.New()
	svc := services.NewLedgerService(store, notifier, logger)
	svc.SetMetrics(m)
	if err := svc.Start(context.Background()); err != nil {
		logger.Error("Failed to load ledger", log.FieldError, err, log.FieldOperation, log.OpStartup)
		os.Exit(1)
	}
	logger.Info("Ledger loaded", log.FieldCount, store.Len(), "backend", cfg.DataBackend)

	srv := apphttp.NewServer(":"+cfg.Port, svc, m, logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		// Retry a write that may have failed earlier.
		if err := svc.Flush(shutdownCtx); err != nil {
			logger.Error("Final flush failed", log.FieldError, err)
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if backend.Cleanup != nil {
			if err := backend.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting ledger server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
