// Package mhttp extends the standard net/http package with handlers which
// scope MDC entries to each request.
package mhttp

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zeplinko/mdcext/mctx"
	"github.com/zeplinko/mdcext/mdc"
	"github.com/zeplinko/mdcext/merr"
	"github.com/zeplinko/mdcext/mlog"
)

// MDC keys set by WithMDC for the duration of every request.
const (
	KeyRequestID = "requestID"
	KeyMethod    = "method"
	KeyPath      = "path"
)

type ctxKey int

// RequestID returns the ID WithMDC generated for the request whose Context is
// given, or the empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey(0)).(string)
	return id
}

// WithMDC wraps the http.Handler so that every request is served with a fresh
// mdc.Map bound to its Context (see mdc.WithStore). The Map holds a newly
// generated request ID, the request method and the URL path while the inner
// Handler runs, and those entries are removed once it returns or panics.
//
// Handlers may add entries of their own with mdc.Put(mdc.From(r.Context())),
// and every message logged with the request's Context will include them.
func WithMDC(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		store := mdc.NewMap()
		id := uuid.New().String()
		ctx := context.WithValue(r.Context(), ctxKey(0), id)
		ctx = mdc.WithStore(ctx, store)

		handle, err := mdc.PutPairs(store,
			mdc.P(KeyRequestID, id),
			mdc.P(KeyMethod, r.Method),
			mdc.P(KeyPath, r.URL.Path),
		)
		if err != nil {
			mlog.Error("could not populate request MDC", merr.Context(err))
			http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer handle.Close()

		h.ServeHTTP(rw, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	if sr.status == 0 {
		sr.status = status
	}
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// Flush implements http.Flusher, if the wrapped ResponseWriter does.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		if sr.status == 0 {
			sr.status = http.StatusOK
		}
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the wrapped ResponseWriter, e.g.
// to hijack the connection.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// LogRequests wraps the http.Handler so that an InfoLevel message is logged to
// the Logger after every request, annotated with the response status and
// duration. When wrapped by WithMDC the message also carries the request's MDC
// entries.
func LogRequests(l *mlog.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: rw}
		h.ServeHTTP(sr, r)

		if sr.status == 0 {
			sr.status = http.StatusOK
		}
		ctx := mctx.Annotate(r.Context(),
			"status", strconv.Itoa(sr.status),
			"took", time.Since(start).String(),
		)
		l.Info("request handled", ctx)
	})
}
