package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"kvcache/internal/auth"
	"kvcache/internal/cache"
	"kvcache/internal/metrics"
	"kvcache/internal/realtime"
	"kvcache/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Starts the HTTP API in front of the cache",
		Example: "kvcache serve -c config.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cmd)
		},
	}
}

func serve(ctx context.Context, cmd *cobra.Command) error {
	conf, logger, err := loadConfig(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cacheMetrics, err := metrics.New(registry)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger)

	a, err := openApp(conf, logger, cache.WithObserver(cacheMetrics), cache.WithObserver(hub))
	if err != nil {
		return err
	}

	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close cache")
		}
	}()

	var issuer *auth.Issuer
	if conf.Auth.Enabled() {
		issuer = auth.NewIssuer(conf.Auth)
	} else {
		logger.Warn().Msg("auth.secret is not configured, the API is not protected")
	}

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr: conf.Server.Address,
		Handler: routes.SetupRoutes(routes.Dependencies{
			Cache:    a.cache,
			Hub:      hub,
			Gatherer: registry,
			Issuer:   issuer,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		defer close(serveErr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	logger.Info().
		Str("address", conf.Server.Address).
		Strs("endpoints", []string{
			"GET    /health",
			"GET    /metrics",
			"GET    /api/cache/:key",
			"PUT    /api/cache/:key",
			"DELETE /api/cache/:key",
			"POST   /api/sweep",
			"GET    /api/events",
		}).
		Msg("Server starting")

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
