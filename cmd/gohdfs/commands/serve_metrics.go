package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/metrics"
	"github.com/marmos91/gohdfs/pkg/metrics/prometheus"
)

const serveMetricsShutdownTimeout = 5 * time.Second

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Run a long-lived process exposing /metrics and /healthz",
	Long: `serve-metrics starts the Prometheus registry and binds an HTTP
server to it, for deployments that run gohdfs as a scrape target rather
than invoking it as a one-shot CLI. It does not itself issue any RPCs.`,
	Args: cobra.NoArgs,
	RunE: runServeMetrics,
}

func runServeMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Metrics.Enabled {
		return fmt.Errorf("gohdfs: metrics.enabled is false in config; nothing to serve")
	}
	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		return err
	}

	reg := prometheus.Init()
	_ = metrics.NewRPCMetrics() // registers the RPC collectors against reg

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metrics.NewServer(reg),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", logger.Endpoint(srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveMetricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
