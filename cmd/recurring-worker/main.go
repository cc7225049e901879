package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/config"
	applog "kharcha/internal/log"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

// The recurring worker runs two periodic jobs against the shared database:
// materializing due recurring expenses and incomes, and evaluating active
// budgets for threshold alerts.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentRecurring})
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Alerts are published to the broker when available; without it the
	// dedup log still records crossings so nothing re-fires later.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, alerts will not be published", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	var alertPublisher services.AlertPublisher
	if amqpClient != nil {
		alertPublisher = amqpClient
	}

	processor := services.NewRecurringProcessor(repo)
	alerts := services.NewBudgetAlertService(repo, alertPublisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Workers configured",
		"recurring_interval", cfg.RecurringInterval,
		"alert_interval", cfg.AlertInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runEvery(ctx, cfg.RecurringInterval, "recurring processing", processor.Run)
	})
	g.Go(func() error {
		return runEvery(ctx, cfg.AlertInterval, "budget alert evaluation", alerts.Run)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// runEvery runs job immediately and then on every tick until ctx ends. Job
// failures are logged and retried on the next tick rather than killing the
// worker.
func runEvery(ctx context.Context, interval time.Duration, name string, job func(context.Context) error) error {
	if err := job(ctx); err != nil {
		slog.ErrorContext(ctx, "Job failed", "job", name, "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := job(ctx); err != nil {
				slog.ErrorContext(ctx, "Job failed", "job", name, "error", err)
			}
		}
	}
}
