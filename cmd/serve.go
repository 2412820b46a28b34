package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pable/scrimstats/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard views as HTML pages. The data file is re-read on every
request, so edits to the sheet show up on the next page load.

Endpoints:
  GET /               redirect to the first view
  GET /views/{view}   one view; filters: tier, role, map_filter, team; pickers: player, map, match
  GET /healthz        liveness check
  GET /metrics        Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default $PORT or 8501)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Port = servePort
	}

	h := web.New(web.Config{
		Source:         source(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("data", cfg.DataPath),
			zap.String("env", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
