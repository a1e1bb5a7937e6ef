package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/metrics"
	chiTransport "github.com/kailas-cloud/pairwise/internal/transport/chi"
	"github.com/kailas-cloud/pairwise/internal/version"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var scanOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the survey HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.serve(ctx, scanOnStart)
		},
	}
	cmd.Flags().BoolVar(&scanOnStart, "scan", false, "Scan the tasks directory before serving")
	return cmd
}

func (a *app) router() http.Handler {
	server := chiTransport.NewServer(a.survey, a.participants, a.catalog, a.health, a.logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(a.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(a.logger))
	r.Use(metrics.Middleware("/metrics", "/health"))
	return chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		AdminMiddlewares: []chiTransport.MiddlewareFunc{chiTransport.BearerAuthMiddleware(a.cfg.Auth.APIKeys)},
		ErrorHandlerFunc: chiTransport.ErrorHandlerFunc,
	})
}

func (a *app) serve(ctx context.Context, scanOnStart bool) error {
	a.logger.Info("Starting pairwise API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
		zap.Strings("db_addrs", a.cfg.Database.Addrs),
		zap.Strings("metrics", a.cfg.Survey.Metrics),
	)
	if len(a.cfg.Auth.APIKeys) == 0 {
		a.logger.Warn("No admin API keys configured, admin routes are unauthenticated")
	}

	if scanOnStart {
		if _, err := a.catalog.Scan(ctx); err != nil {
			return fmt.Errorf("initial scan: %w", err)
		}
	}

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router(),
		ReadTimeout:       time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}
