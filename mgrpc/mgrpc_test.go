package mgrpc

import (
	"context"
	"errors"
	. "testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/zeplinko/mdcext/mctx"
	"github.com/zeplinko/mdcext/mdc"
)

const testMethod = "/mdcext.test.Service/Method"

func assertCallAnnotations(t *T, aa mctx.Annotations) {
	t.Helper()
	assert.Equal(t, testMethod, aa[KeyMethod])
	_, err := uuid.Parse(aa[KeyCallID])
	assert.NoError(t, err)
	assert.Equal(t, "12345", aa["userId"])
}

func TestUnaryServerInterceptor(t *T) {
	errHandler := errors.New("handler failed")
	var store *mdc.Map
	var during mctx.Annotations
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		store = mdc.From(ctx).(*mdc.Map)
		h, err := mdc.Put(store, "userId", "12345")
		require.NoError(t, err)
		defer h.Close()

		during = mctx.EvaluateAnnotations(ctx, nil)
		return req, errHandler
	}

	info := &grpc.UnaryServerInfo{FullMethod: testMethod}
	resp, err := UnaryServerInterceptor()(context.Background(), "req", info, handler)
	assert.Equal(t, "req", resp)
	assert.Equal(t, errHandler, err)

	assertCallAnnotations(t, during)
	assert.Equal(t, 0, store.Len())
}

type testServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (ss testServerStream) Context() context.Context {
	return ss.ctx
}

func TestStreamServerInterceptor(t *T) {
	var store *mdc.Map
	var during mctx.Annotations
	handler := func(srv interface{}, ss grpc.ServerStream) error {
		ctx := ss.Context()
		store = mdc.From(ctx).(*mdc.Map)
		h, err := mdc.Put(store, "userId", "12345")
		require.NoError(t, err)
		defer h.Close()

		during = mctx.EvaluateAnnotations(ctx, nil)
		return nil
	}

	parent := mctx.Annotate(context.Background(), "parent", "yes")
	ss := testServerStream{ctx: parent}
	info := &grpc.StreamServerInfo{FullMethod: testMethod, IsServerStream: true}
	require.NoError(t, StreamServerInterceptor()(nil, ss, info, handler))

	assertCallAnnotations(t, during)
	assert.Equal(t, "yes", during["parent"])
	assert.Equal(t, 0, store.Len())
}
