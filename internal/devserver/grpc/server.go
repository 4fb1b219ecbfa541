// Package grpc is the gRPC front of the dev server. Every call is a unary
// BytesValue exchange whose full method name mirrors the HTTP path, so one
// client executor can talk to either front.
package grpc

import (
	"context"
	"net"

	"github.com/umerwe/school-frontend-sub001/internal/devserver/api"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address string
	api     *api.API
	logger  logging.Logger
	srv     *grpc.Server
}

func NewGRPCServer(a string, l logging.Logger, endpoints *api.API) *GRPCServer {
	if l == nil {
		l = logging.Nop()
	}
	s := &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		api:     endpoints,
	}
	s.srv = grpc.NewServer(
		grpc.ChainStreamInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
		grpc.UnknownServiceHandler(s.handle),
	)
	return s
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return s.srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}
