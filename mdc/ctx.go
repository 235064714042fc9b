package mdc

import (
	"context"

	"github.com/zeplinko/mdcext/mctx"
)

type ctxKey int

// WithStore returns a Context with the Store bound to it, to be retrieved
// later using From. If the Store also implements mctx.Annotator (as Map does)
// it is added as an Annotator on the Context as well, so that its entries show
// up on log messages.
//
// Binding a fresh Map to the Context of each request, job, or other unit of
// work keeps the MDC entries of concurrent units separate.
func WithStore(ctx context.Context, s Store) context.Context {
	ctx = context.WithValue(ctx, ctxKey(0), s)
	if a, ok := s.(mctx.Annotator); ok {
		ctx = mctx.WithAnnotator(ctx, a)
	}
	return ctx
}

// From returns the Store bound to the Context by WithStore, or Default if no
// Store was bound.
func From(ctx context.Context) Store {
	if s, ok := Bound(ctx); ok {
		return s
	}
	return Default
}

// Bound returns the Store bound to the Context by WithStore, and false if
// there isn't one.
func Bound(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(ctxKey(0)).(Store)
	return s, ok
}
