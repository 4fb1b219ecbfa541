package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/umerwe/school-frontend-sub001/internal/devserver/api"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	MethodLogin   = "/auth/login"
	MethodRefresh = "/auth/refresh-tokens"
	MethodLogout  = "/auth/logout"
	MethodHealth  = "/health/check"

	dashboardPrefix = "/dashboard/"
)

func (s *GRPCServer) handle(_ any, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "no method in stream")
	}

	in := new(wrapperspb.BytesValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	out, err := s.dispatch(stream.Context(), method, in.GetValue())
	if err != nil {
		return err
	}
	return stream.SendMsg(wrapperspb.Bytes(out))
}

func (s *GRPCServer) dispatch(ctx context.Context, method string, body []byte) ([]byte, error) {
	switch {
	case method == MethodHealth:
		if err := s.api.Health(ctx); err != nil {
			return nil, toStatus(err)
		}
		return []byte(`{"status":"ok"}`), nil

	case method == MethodLogin:
		pair, err := s.api.Login(ctx, body)
		if err != nil {
			return nil, toStatus(err)
		}
		return envelope(pair)

	case method == MethodRefresh:
		pair, err := s.api.Refresh(ctx, cookie(ctx, api.RefreshCookieName))
		if err != nil {
			return nil, toStatus(err)
		}
		return envelope(pair)

	case method == MethodLogout:
		if err := s.api.Logout(ctx, cookie(ctx, api.RefreshCookieName)); err != nil {
			return nil, toStatus(err)
		}
		return nil, nil

	case strings.HasPrefix(method, dashboardPrefix):
		token := accessToken(ctx)
		if token == "" {
			return nil, toStatus(users.ErrUnauthorized)
		}
		summary, err := s.api.Dashboard(ctx, token, strings.TrimPrefix(method, dashboardPrefix))
		if err != nil {
			return nil, toStatus(err)
		}
		return envelope(summary)

	default:
		return nil, status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
}

func envelope(v any) ([]byte, error) {
	b, err := json.Marshal(api.Envelope{Data: v})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return b, nil
}

// cookie reads name from the cookie metadata, which uses the HTTP Cookie
// header syntax.
func cookie(ctx context.Context, name string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	r := &http.Request{Header: http.Header{"Cookie": md.Get("cookie")}}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, users.ErrUnauthorized):
		code = codes.Unauthenticated
	case errors.Is(err, api.ErrBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, api.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, api.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, api.ErrUnavailable):
		code = codes.Unavailable
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
