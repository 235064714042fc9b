// Package mctx extends the builtin context package with annotations, which are
// string key/value pairs of runtime metadata carried alongside a Context.
//
// Annotation data might include the ID of the request being served, the user
// the client authenticated as, or the name of the RPC being handled. The mlog
// package includes a Context's annotations on every message logged with it.
//
// Annotators are evaluated lazily, each time EvaluateAnnotations is called,
// so an Annotator backed by mutable state (such as an mdc.Map) will always
// report that state as it is at evaluation time.
//
// All functions in this package are thread-safe unless otherwise noted.
package mctx
