package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/peplab/internal/config"
	httpAdapter "github.com/aretw0/peplab/pkg/adapters/http"
)

// ShutdownTimeout bounds how long in-flight requests get after a stop signal.
const ShutdownTimeout = 5 * time.Second

// NewServerHandler builds the HTTP surface for rt.
func NewServerHandler(rt *Runtime, cfg config.Config, logger *slog.Logger) http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithCookieName(cfg.Session.Cookie),
		httpAdapter.WithLogger(logger),
	}
	if rt.Registry != nil {
		opts = append(opts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})))
	}
	return httpAdapter.NewHandler(rt.Engine, opts...)
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, cfg config.Config, logger *slog.Logger, out io.Writer) error {
	rt, err := NewRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("Failed to close session store", "error", err)
		}
	}()

	srv := &http.Server{
		Handler:           NewServerHandler(rt, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Starting peplab server on %s", ln.Addr())
		printSystemMessage(out, "Backend: %s (session store: %s)", cfg.Backend.URL, cfg.Session.Store)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(out, "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(out, "peplab server stopped gracefully")
		return nil
	}
}
