package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "github.com/cgund98/go-order-pipeline/internal/delivery/http"
	entity "github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/entity/orders/stage"
	"github.com/cgund98/go-order-pipeline/internal/infra/config"
	"github.com/cgund98/go-order-pipeline/internal/infra/eventsrc"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

func initKafkaWriter(cfg *config.Config) (*kafka.Writer, func()) {
	kafkaConnStr := fmt.Sprintf("%s:%d", cfg.KafkaHost, cfg.KafkaPort)
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  []string{kafkaConnStr},
		Balancer: eventsrc.Murmur2Balancer{},
	})

	cleanup := func() {
		if err := writer.Close(); err != nil {
			logging.Logger.Error(fmt.Sprintf("error closing kafka connection: %v", err))
		}
	}

	return writer, cleanup
}

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

	writer, cleanup := initKafkaWriter(cfg)
	defer cleanup()

	logging.Logger.Info("Starting shipping service...")

	bus := eventsrc.NewKafkaBus(writer)
	publisher := entity.NewEventPublisher(bus)

	retryCfg := retry.Config{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		Multiplier:   cfg.RetryMultiplier,
	}

	carrier := &stage.SimulatedCarrier{
		SuccessRate:    cfg.ShippingSuccessRate,
		PackagingDelay: cfg.PackagingDelay,
	}
	processor := stage.NewShippingProcessor(publisher, carrier, retryCfg, cfg.SentOrdersTopic, cfg.FailedShipmentsTopic)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	runWorkers(ctx, g, cfg, cfg.PaidOrdersTopic, cfg.ShippingGroupID, processor)

	handler := delivery.NewShippingHandler()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HttpPort),
		Handler: handler.Routes(),
	}

	g.Go(func() error {
		logging.Logger.Info("Starting HTTP server...", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logging.Logger.Error(fmt.Sprintf("server error: %v", err))
		os.Exit(1)
	}

	logging.Logger.Info("Shipping service shut down gracefully")
}
