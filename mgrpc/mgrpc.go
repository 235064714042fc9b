// Package mgrpc provides gRPC server interceptors which scope MDC entries to
// each call.
package mgrpc

import (
	"context"

	"github.com/google/uuid"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zeplinko/mdcext/mdc"
	"github.com/zeplinko/mdcext/merr"
	"github.com/zeplinko/mdcext/mlog"
)

// MDC keys set by the interceptors for the duration of every call.
const (
	KeyCallID = "callID"
	KeyMethod = "grpcMethod"
)

// scope binds a fresh mdc.Map to the Context and fills it with the call's
// entries. The returned Handle must be closed once the call is done.
func scope(ctx context.Context, fullMethod string) (context.Context, *mdc.Handle, error) {
	store := mdc.NewMap()
	ctx = mdc.WithStore(ctx, store)
	handle, err := mdc.PutPairs(store,
		mdc.P(KeyCallID, uuid.New().String()),
		mdc.P(KeyMethod, fullMethod),
	)
	if err != nil {
		mlog.Error("could not populate call MDC", merr.Context(err))
		return nil, nil, status.Error(codes.Internal, "could not populate call MDC")
	}
	return ctx, handle, nil
}

// UnaryServerInterceptor returns an interceptor which serves every unary call
// with a fresh mdc.Map bound to its Context, holding a newly generated call ID
// and the full method name. The entries are removed once the handler returns.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (interface{}, error) {
		ctx, handle, err := scope(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		defer handle.Close()
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is like UnaryServerInterceptor, but for streaming
// calls. The handler sees the MDC-bound Context through the stream's Context
// method.
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler,
	) error {
		ctx, handle, err := scope(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		defer handle.Close()

		wrapped := grpc_middleware.WrapServerStream(ss)
		wrapped.WrappedContext = ctx
		return handler(srv, wrapped)
	}
}
