package service

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func myErrorCodeToGRPCCode(code string) codes.Code {
	switch code {
	case ErrBadParameter:
		return codes.InvalidArgument
	case ErrEntityNotFound:
		return codes.NotFound
	case ErrInternalServerError:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// MyErrorToGRPC converts an error to a gRPC status error. MyError keeps its message under
// the mapped code; anything else becomes codes.Unknown with "internal error".
func MyErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	if myErr := ToMyError(err); myErr != nil {
		return status.Error(myErrorCodeToGRPCCode(myErr.Code), myErr.Message)
	}
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	return status.Error(codes.Unknown, "internal error")
}

// GRPCToMyError is the client-side inverse of MyErrorToGRPC. Transport failures
// (Unavailable, DeadlineExceeded, ...) become internal_server_error so callers may retry them.
func GRPCToMyError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return NewInternalServerError("peer call failed", err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return NewMyError(ErrBadParameter, st.Message(), err)
	case codes.NotFound:
		return NewMyError(ErrEntityNotFound, st.Message(), err)
	default:
		return NewMyError(ErrInternalServerError, st.Message(), err)
	}
}

// MyErrorToGRPCInterceptor returns a unary server interceptor that converts handler
// errors to gRPC status errors and logs them.
func MyErrorToGRPCInterceptor(logger log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			if myErr := ToMyError(err); myErr != nil && myErr.Code != ErrInternalServerError {
				level.Info(logger).Log(
					"msg", "gRPC handler error",
					"method", info.FullMethod,
					"error_code", myErr.Code,
					"error_message", myErr.Message,
				)
			} else {
				level.Error(logger).Log(
					"msg", "gRPC handler error",
					"method", info.FullMethod,
					"err", err,
				)
			}
			err = MyErrorToGRPC(err)
		}
		return resp, err
	}
}
