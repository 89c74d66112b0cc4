package grpc

import (
	"context"
	"fmt"
	"net"
	"os"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

// DaemonServer serves mediator commands and queries over a unix socket
type DaemonServer struct {
	mediator   mediator.Mediator
	listener   net.Listener
	grpcServer *grpc.Server
	socketPath string
}

// NewDaemonServer creates a new daemon server listening on cfg.SocketPath
func NewDaemonServer(
	m mediator.Mediator,
	logger logging.SimulationLogger,
	cfg config.DaemonConfig,
) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	// Create Unix domain socket listener
	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(cfg.SocketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.Requests > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst)
	}

	server := &DaemonServer{
		mediator:   m,
		listener:   listener,
		socketPath: cfg.SocketPath,
		grpcServer: grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				ContextInterceptor(logger),
				RateLimitInterceptor(limiter),
			),
		),
	}
	server.grpcServer.RegisterService(serviceDesc(), server)

	return server, nil
}

// Addr returns the socket the server listens on
func (s *DaemonServer) Addr() string {
	return s.socketPath
}

// Serve blocks until the server stops. It returns nil after Stop.
func (s *DaemonServer) Serve() error {
	if err := s.grpcServer.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and removes the socket
func (s *DaemonServer) Stop() {
	s.grpcServer.GracefulStop()
	_ = os.Remove(s.socketPath)
}

func (s *DaemonServer) dispatch(ctx context.Context, request mediator.Request) (*structpb.Struct, error) {
	response, err := s.mediator.Send(ctx, request)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	out, err := toStruct(response)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return out, nil
}
