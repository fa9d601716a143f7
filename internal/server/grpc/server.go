// Package grpc exposes the forum over the gophforum.v1.Forum gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	users     *services.UserService
	forum     *services.ForumService
	avatars   *services.AvatarService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, fs *services.ForumService, as *services.AvatarService, secretKey string) (*GRPCServer, error) {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		forum:     fs,
		avatars:   as,
		jwtSecret: []byte(secretKey),
	}, nil
}

// NewServer creates a grpc.Server with the interceptor chain and the Forum
// service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	RegisterForumServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
