package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kakeibo/internal/amqp"
	"kakeibo/internal/clock"
	"kakeibo/internal/config"
	"kakeibo/internal/log"
	"kakeibo/internal/services"
	"kakeibo/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.Setup(log.ComponentGenerator, slog.LevelInfo)
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

	// AMQP client for publishing export messages; generated rows still land
	// in SQLite without it.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP client initialized - generated rows will sync via kakeibo-worker")
		}
	} else {
		logger.Info("AMQP disabled - generated rows will not be exported")
	}

	generator := services.NewGenerator(repo, publisher, clock.System{}, cfg.FullIncomeDate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurring generator configured",
		"interval", cfg.GeneratorInterval,
		"sqlite_db", cfg.SQLiteDBPath,
		"full_income_date", cfg.FullIncomeDate)

	ticker := time.NewTicker(cfg.GeneratorInterval)
	defer ticker.Stop()

	// Run once on startup; the generation log makes repeat runs within the
	// same JST day no-ops.
	logRunResult(logger, generator.Run(ctx))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logRunResult(logger, generator.Run(ctx))
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Recurring-worker shutdown complete")
}

func logRunResult(logger *slog.Logger, result services.RunResult) {
	attrs := []any{
		"date", result.Date,
		"income_inserted", result.Income.Inserted,
		"income_skipped", result.Income.Skipped,
		"fixed_cost_inserted", result.FixedCost.Inserted,
		"fixed_cost_skipped", result.FixedCost.Skipped,
	}
	if result.Income.Err != nil {
		attrs = append(attrs, "income_error", result.Income.Err.Error())
	}
	if result.FixedCost.Err != nil {
		attrs = append(attrs, "fixed_cost_error", result.FixedCost.Err.Error())
	}
	if result.Income.Err != nil || result.FixedCost.Err != nil {
		logger.Error("Generation run finished with errors", attrs...)
		return
	}
	logger.Info("Generation run complete", attrs...)
}
