package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	AuthorizationMetadataKey = "authorization"
	RequestIDMetadataKey     = "x-request-id"
	CookieMetadataKey        = "cookie"
)

// GRPCExecutor executes requests as unary gRPC calls. Request.Path is the
// full method name; the body and the reply travel as BytesValue messages so
// the executor stays independent of generated service stubs.
type GRPCExecutor struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

func NewGRPCExecutor(conn grpc.ClientConnInterface, timeout time.Duration) *GRPCExecutor {
	return &GRPCExecutor{conn: conn, timeout: timeout}
}

// DialGRPC opens a plaintext client connection to addr.
func DialGRPC(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func withOutgoing(ctx context.Context, req *models.Request, cred models.Credential) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	for k, v := range req.Header {
		md.Set(strings.ToLower(k), v)
	}
	if req.ID != "" {
		md.Set(RequestIDMetadataKey, req.ID)
	}
	cookies := make([]string, 0, len(req.Cookies))
	for name, value := range req.Cookies {
		cookies = append(cookies, name+"="+value)
	}
	if len(cookies) > 0 {
		md.Set(CookieMetadataKey, strings.Join(cookies, "; "))
	}
	md.Delete(AuthorizationMetadataKey)
	if cred.AccessToken != "" {
		md.Set(AuthorizationMetadataKey, "Bearer "+cred.AccessToken)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (e *GRPCExecutor) Execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	if req.Path == "" {
		return models.OtherError(0, ErrNoTarget.Error())
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reply := &wrapperspb.BytesValue{}
	err := e.conn.Invoke(withOutgoing(ctx, req, cred), req.Path, wrapperspb.Bytes(req.Body), reply)

	return classifyGRPC(err, reply.GetValue())
}

func classifyGRPC(err error, payload []byte) models.Outcome {
	if err == nil {
		return models.Success(http.StatusOK, payload)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.Unreachable(err.Error())
	}

	st, ok := status.FromError(err)
	if !ok {
		return models.Unreachable(err.Error())
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return models.Unauthorized(st.Message())
	case codes.Unavailable:
		return models.ServerError(http.StatusServiceUnavailable, st.Message())
	case codes.DeadlineExceeded:
		return models.Unreachable(st.Message())
	case codes.Canceled:
		return models.OtherError(0, st.Message())
	default:
		return models.OtherError(httpStatusFromCode(st.Code()), fmt.Sprintf("%s: %s", st.Code(), st.Message()))
	}
}

func httpStatusFromCode(c codes.Code) int {
	switch c {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
