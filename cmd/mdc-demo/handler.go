package main

import (
	"fmt"
	"net/http"

	"github.com/zeplinko/mdcext/mdc"
	"github.com/zeplinko/mdcext/merr"
	"github.com/zeplinko/mdcext/mlog"
)

func newMux(logger *mlog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/hello", helloHandler(logger))
	return mux
}

// helloHandler greets the user named by the "user" query parameter. The user
// is added to the request's MDC for as long as the greeting is being handled.
func helloHandler(logger *mlog.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := r.URL.Query().Get("user")
		if user == "" {
			logger.Warn("greeting requested without a user", ctx)
			http.Error(rw, "user is required", http.StatusBadRequest)
			return
		}

		h, err := mdc.Put(mdc.From(ctx), "user", user)
		if err != nil {
			logger.Error("could not add user to MDC", ctx, merr.Context(err))
			http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer h.Close()

		logger.Info("greeting user", ctx)
		fmt.Fprintf(rw, "hello, %s\n", user)
	}
}
