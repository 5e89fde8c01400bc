package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-showif"
	"github.com/goliatone/go-showif/internal/httpapi"
)

type serveOptions struct {
	addr            string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	bodyLimit       int64
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluate and inspect endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}
			registry, err := showif.NewRegistry(nil)
			if err != nil {
				return err
			}

			handler := httpapi.New(
				httpapi.WithLogger(logger),
				httpapi.WithRenderers(registry),
				httpapi.WithVersion(version),
				httpapi.WithTimeout(opts.requestTimeout),
				httpapi.WithBodyLimit(opts.bodyLimit),
			)
			srv := &http.Server{
				Addr:              opts.addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.WithFields(map[string]any{"addr": opts.addr}).Info("server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&opts.requestTimeout, "request-timeout", 30*time.Second, "Per-request timeout")
	cmd.Flags().DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	cmd.Flags().Int64Var(&opts.bodyLimit, "body-limit", httpapi.DefaultBodyLimit, "Maximum request body size in bytes")

	return cmd
}
