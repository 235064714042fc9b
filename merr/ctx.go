package merr

import (
	"context"

	"github.com/zeplinko/mdcext/mctx"
)

// Context returns a Context annotated with the error string, the source line
// the error was created on, and all visible key/values of the error. It's
// intended to be passed to mlog alongside an error message.
func Context(e error) context.Context {
	ctx := context.Background()
	if e == nil {
		return ctx
	}

	aa := mctx.Annotations{"err": Base(e).Error()}
	if stack := GetStack(e); len(stack) > 0 {
		aa["errSrc"] = stack.Source()
	}
	if er, ok := e.(*err); ok {
		for _, kv := range er.visibleAttrs() {
			aa[kv[0]] = kv[1]
		}
	}
	return mctx.WithAnnotator(ctx, aa)
}
