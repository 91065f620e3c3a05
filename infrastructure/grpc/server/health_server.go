package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "direct-chat"

// HealthServer exposes the standard gRPC health service for probes.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	log        *slog.Logger
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	return &HealthServer{grpcServer: grpcServer, health: healthServer, log: log}
}

func (s *HealthServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Run serves on port until ctx is cancelled, then reports NOT_SERVING and stops gracefully.
func (s *HealthServer) Run(ctx context.Context, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("health listener: %w", err)
	}
	return s.Serve(ctx, lis)
}

func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.SetServing(true)
	go func() {
		<-ctx.Done()
		s.SetServing(false)
		s.grpcServer.GracefulStop()
	}()

	s.log.Info("gRPC health server listening", "address", lis.Addr().String())
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
