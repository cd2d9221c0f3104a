// Package grpc exposes the session core over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type authService interface {
	SignIn(ctx context.Context, identity models.ExternalIdentity) (string, error)
	Session(ctx context.Context, token string) (*models.Session, error)
}

type GRPCServer struct {
	address string
	auth    authService
	logger  logging.Logger
}

var _ SessionServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as authService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
// The stop goroutine exits with Serve even when Serve fails first.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	hs := health.NewServer()
	hs.SetServingStatus(SessionServiceName, healthpb.HealthCheckResponse_SERVING)

	RegisterSessionServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, hs)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			hs.Shutdown()
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
