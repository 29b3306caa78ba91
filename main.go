package main

import (
	"catalog/app"
	"catalog/app/category"
	"catalog/app/product"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/httpapi"
	"catalog/pkg/aws"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logging"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	logger, err := logging.Init(appConfig.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	zap.L().Info("app starting...")

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgRepository.Migrate(migrateCtx); err != nil {
		cancel()
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}
	cancel()

	checks := map[string]httpapi.Checker{
		"postgres": pgRepository.Ping,
	}

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbitPublisher, err := rabbitmq.NewRabbitMQPublisher(
			appConfig.RabbitMQURL,
			appConfig.ServiceName,
			events.CategoryExchange,
			events.ProductExchange,
		)
		if err != nil {
			zap.L().Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		checks["rabbitmq"] = rabbitPublisher.Check
	} else {
		zap.L().Warn("RABBITMQ_URL not set, catalog events are disabled")
	}

	// Left as a nil interface when no bucket is configured so uploads answer 503.
	var storage app.ObjectStorage
	if appConfig.StorageEnabled() {
		bucket := aws.NewS3Bucket(appConfig)
		defer bucket.Close()
		storage = bucket
	} else {
		zap.L().Warn("AWS_BUCKET not set, product image uploads are disabled")
	}

	repos := pgRepository.Repositories()

	server := httpapi.New(httpapi.Deps{
		Categories:  category.NewService(pgRepository, repos, publisher),
		Products:    product.NewService(pgRepository, repos, publisher, storage),
		ServiceName: appConfig.ServiceName,
		FrontendURL: appConfig.FrontendURL,
		Checks:      checks,
	})

	go func() {
		if err := server.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(server)
}

func gracefulShutdown(server *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	// Shutdown with 5 second timeout
	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
