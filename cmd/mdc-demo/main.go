package main

/*
	mdc-demo serves a small HTTP API in which every request is handled with its
	own MDC. The request ID, method, and path are scoped to the request by
	mhttp.WithMDC, and the greeting handler adds the requesting user on top, so
	every log line written while serving a request carries those fields.

	Every flag can also be given as an environment variable, e.g. --level as
	MDC_DEMO_LEVEL.
*/

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeplinko/mdcext/merr"
	"github.com/zeplinko/mdcext/mhttp"
	"github.com/zeplinko/mdcext/mlog"
)

const envPrefix = "MDC_DEMO_"

type options struct {
	level string
	json  bool
	addr  string
}

func newLogger(opts options) (*mlog.Logger, error) {
	lvl, err := mlog.LevelFromString(opts.level)
	if err != nil {
		return nil, err
	}
	l := mlog.NewLogger()
	l.SetMaxLevel(lvl)
	if opts.json {
		l.SetHandler(mlog.NewJSONHandler(os.Stderr))
	}
	return l, nil
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "mdc-demo",
		Short:        "Serve an HTTP API which logs with a request-scoped MDC",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindEnv(envPrefix, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.level, "level", "info",
		"set the logging level (can be one of: debug, info, warn, error, or fatal)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "log messages as JSON objects")
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "address to listen on")

	return cmd
}

func serve(ctx context.Context, logger *mlog.Logger, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mhttp.WithMDC(mhttp.LogRequests(logger, newMux(logger))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("listening on " + addr)

	select {
	case err := <-errCh:
		return merr.Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return merr.Wrap(err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return merr.Wrap(err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
