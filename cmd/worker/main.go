package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rehoming/cmd"
	"rehoming/config"
	"rehoming/infrastructure/messaging"
	"rehoming/infrastructure/persistence/rdb"
	"rehoming/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	components, err := cmd.NewComponents(cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if components.DB != nil {
		publisher, err := messaging.NewPublisher(cfg.Messaging)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		defer publisher.Close()

		worker, err := rdb.NewOutboxWorker(
			rdb.NewOutboxRepository(components.DB),
			publisher,
			cfg.Worker.OutboxPollInterval,
			cfg.Worker.OutboxBatchSize,
			cfg.Worker.OutboxMaxRetries,
		)
		if err != nil {
			return fmt.Errorf("failed to create outbox worker: %w", err)
		}
		worker.WithMetrics(components.Metrics).WithProcessingTimeout(cfg.Worker.OutboxProcessingTimeout)

		logger.Info("Outbox publisher configured",
			zap.String("publisher", cfg.Messaging.Publisher),
			zap.Int("max_retries", cfg.Worker.OutboxMaxRetries),
		)
		g.Go(func() error { return worker.Run(ctx) })
	} else {
		logger.Warn("Outbox worker disabled for in-memory persistence")
	}

	sweeper, err := cmd.NewExpirySweeper(components.PersonService, components.Metrics,
		cfg.Worker.ExpirySweepInterval, cfg.Worker.ExpiryBatchSize)
	if err != nil {
		return fmt.Errorf("failed to create expiry sweeper: %w", err)
	}
	logger.Info("Expiry sweeper started",
		zap.Duration("interval", cfg.Worker.ExpirySweepInterval),
		zap.Int("batch_size", cfg.Worker.ExpiryBatchSize),
	)
	g.Go(func() error { return sweeper.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker exited with error: %w", err)
	}

	logger.Info("Worker stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
