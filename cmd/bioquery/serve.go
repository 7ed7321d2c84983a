package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/metrics"
	chiTransport "github.com/kailas-cloud/bioquery/internal/transport/chi"
	"github.com/kailas-cloud/bioquery/internal/version"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	log := a.logger

	log.Info("Starting bioquery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	svc, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	created, err := svc.schema.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if len(created) > 0 {
		log.Info("Created search indexes", zap.Strings("indexes", created))
	}

	server := chiTransport.NewServer(svc.taxa, svc.proteins, svc.rna, svc.health, chiTransport.Limits{
		DefaultMaxDistance: cfg.Query.DefaultMaxDistance,
		MaxDistance:        cfg.Query.MaxDistance,
		DefaultPageSize:    cfg.Query.DefaultPageSize,
		MaxPageSize:        cfg.Query.MaxPageSize,
	})

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLog(log))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	metrics.RegisterHTTPMetrics()
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := cfg.HTTP.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
		log.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
	return nil
}
