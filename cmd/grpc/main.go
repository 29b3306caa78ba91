package main

import (
	"catalog/app/category"
	"catalog/app/product"
	"catalog/infra/grpc"
	"catalog/infra/postgres"
	"catalog/pkg/config"
	"catalog/pkg/logging"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	logger, err := logging.Init(appConfig.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	zap.L().Info("Catalog gRPC Service starting...")

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	repos := pgRepository.Repositories()
	categories := category.NewService(pgRepository, repos, nil)
	products := product.NewService(pgRepository, repos, nil, nil)

	grpcServer.RegisterCatalog(grpc.NewCatalogServiceServer(categories, products))

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := grpcServer.GracefulStop(); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
