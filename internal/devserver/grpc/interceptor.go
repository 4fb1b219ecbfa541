package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accessTokenKey ctxKey = "accessToken"

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }

// accessTokenInterceptor lifts a Bearer token from the authorization
// metadata into the stream context. Endpoints decide whether they need it.
func (s *GRPCServer) accessTokenInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := ss.Context()

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, v := range md.Get("authorization") {
			scheme, token, ok := strings.Cut(v, " ")
			if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
				ctx = context.WithValue(ctx, accessTokenKey, token)
				break
			}
		}
	}

	return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
}

func (s *GRPCServer) loggingInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)

	var requestID string
	if md, ok := metadata.FromIncomingContext(ss.Context()); ok {
		if v := md.Get("x-request-id"); len(v) > 0 {
			requestID = v[0]
		}
	}

	s.logger.Info(logging.ContextWithRequestID(ss.Context(), requestID), "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start).String(),
	)
	return err
}

func accessToken(ctx context.Context) string {
	v, _ := ctx.Value(accessTokenKey).(string)
	return v
}
