package grpc

import (
	"catalog/pkg/config"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

func (s *Server) GetGRPCServer() grpc.ServiceRegistrar {
	return s.server
}

func NewServer(cfg *config.AppConfig) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	return NewServerWithListener(lis), nil
}

// NewServerWithListener serves on an existing listener, e.g. a bufconn in tests.
func NewServerWithListener(lis net.Listener) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor,
			loggingInterceptor,
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		health:   healthServer,
		listener: lis,
	}
}

// RegisterCatalog registers the catalog service and marks it serving.
func (s *Server) RegisterCatalog(srv CatalogServer) {
	RegisterCatalogServer(s.server, srv)
	s.health.SetServingStatus(CatalogServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GetListener() net.Listener {
	return s.listener
}

func (s *Server) GracefulStop() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	// Serve closes the listener on stop.
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
