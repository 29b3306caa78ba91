package main

import (
	"catalog/app/product"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/consumers"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logging"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	logger, err := logging.Init(appConfig.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	zap.L().Info("Catalog Worker Service starting...")
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName, events.ProductExchange)
	if err != nil {
		zap.L().Fatal("Failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	products := product.NewService(pgRepository, pgRepository.Repositories(), publisher, nil)
	inventoryHandler := consumers.NewInventoryEventHandler(products)

	inventoryConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.InventoryExchange,
		QueueName:      "catalog.inventory.adjusted.v1",
		RoutingKeys:    []string{events.InventoryAdjustedEvent + "." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create inventory consumer", zap.Error(err))
	}
	defer inventoryConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		zap.L().Info("Starting inventory event consumer...")
		if err := inventoryConsumer.Consume(ctx, inventoryHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Inventory consumer error", zap.Error(err))
		}
	}()

	go monitorPool(ctx, pgRepository)

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.InventoryExchange),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-done:
		zap.L().Warn("Consumer stopped, shutting down worker service...")
	}
	cancel()
	<-done

	zap.L().Info("Worker service stopped gracefully")
}

func monitorPool(ctx context.Context, pgRepository *postgres.PgRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pgRepository.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}
