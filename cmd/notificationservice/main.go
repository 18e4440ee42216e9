package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cgund98/go-order-pipeline/internal/entity/orders/stage"
	"github.com/cgund98/go-order-pipeline/internal/infra/config"
	"github.com/cgund98/go-order-pipeline/internal/infra/eventsrc"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

func runWorkers(ctx context.Context, g *errgroup.Group, cfg *config.Config, topic, groupID string, consumer eventsrc.BatchConsumer) {
	kafkaConnStr := fmt.Sprintf("%s:%d", cfg.KafkaHost, cfg.KafkaPort)

	for i := 0; i < cfg.Workers; i++ {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{kafkaConnStr},
			GroupID: groupID,
			Topic:   topic,
		})

		g.Go(func() error {
			defer func() {
				if err := reader.Close(); err != nil {
					logging.Logger.Error(fmt.Sprintf("error closing kafka reader: %v", err))
				}
			}()

			return eventsrc.RunBatchConsumer(ctx, reader, consumer, eventsrc.RunBatchConsumerOptions{
				BatchSize:    cfg.BatchSize,
				BatchMaxWait: cfg.BatchMaxWait,
			})
		})
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Logger.Error(fmt.Sprintf("unable to load config: %v", err))
		os.Exit(1)
	}

	logging.Logger.Info("Starting notification service...")

	retryCfg := retry.Config{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		Multiplier:   cfg.RetryMultiplier,
	}

	notifier := stage.NewNotifier(retryCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	runWorkers(ctx, g, cfg, cfg.SentOrdersTopic, cfg.NotificationGroupID, notifier)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logging.Logger.Error(fmt.Sprintf("worker error: %v", err))
		os.Exit(1)
	}

	logging.Logger.Info("Notification service shut down gracefully")
}
