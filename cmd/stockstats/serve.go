package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rickgao/stockstats"
	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/metrics"
	"github.com/rickgao/stockstats/internal/scheduler"
	"github.com/rickgao/stockstats/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the CloudEvent function locally",
	Long: `Serve the StockStats CloudEvent function with the Functions Framework on
$PORT (default 8080), and an ops server with /health and the metrics endpoint
on metrics.port. When trigger.interval is set, the sentinel command is also
delivered on that interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		handler, cleanup, err := stockstats.Configure(cfg, logger, prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("configure function: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var sched *scheduler.Scheduler
		if cfg.Trigger.Interval > 0 {
			sched = scheduler.New(scheduler.Config{
				Interval: cfg.Trigger.Interval,
				Command:  cfg.Trigger.Command,
			}, handler, logger.With("component", "scheduler"))
			sched.Start(ctx)
		}

		opsServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           newOpsRouter(cfg.Metrics, prometheus.DefaultGatherer),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting ops server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
			if err := opsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		if os.Getenv("FUNCTION_TARGET") == "" {
			os.Setenv("FUNCTION_TARGET", stockstats.FunctionName)
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serving function", "function", stockstats.FunctionName, "port", port)
			errCh <- funcframework.Start(port)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("functions framework: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opsServer.Shutdown(shutdownCtx)
		if sched != nil {
			sched.Stop(shutdownCtx)
		}

		logger.Info("stockstats stopped")
		return nil
	},
}

// newOpsRouter serves /health and the Prometheus metrics.
func newOpsRouter(cfg config.MetricsConfig, g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": version.Version,
		})
	})
	r.Handle(cfg.Path, metrics.Handler(g))

	return r
}
