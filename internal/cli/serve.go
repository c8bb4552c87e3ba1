package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/internal/server"
	"github.com/harun/rcrm/internal/tracing"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registry and orchestrator over HTTP",
	Long: `Start the JSON HTTP API. The catalog file is watched and reloaded when
catalog.watch is enabled, and Prometheus metrics are exposed when
metrics.enabled is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := a.newServer()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", srv.Addr())
	}

	return a.serve(ctx, srv, ln)
}

func (a *app) newServer() (*server.Server, error) {
	opts := server.Options{
		Host:               a.cfg.Server.Host,
		Port:               a.cfg.Server.Port,
		DefaultLimit:       a.cfg.Orchestrator.DefaultLimit,
		RateLimitPerMinute: a.cfg.Server.RateLimit,
		ShutdownTimeout:    time.Duration(a.cfg.Server.ShutdownTimeout) * time.Second,
	}
	if a.cfg.Metrics.Enabled {
		opts.MetricsPath = a.cfg.Metrics.Path
		opts.Metrics = a.metrics.Handler()
	}
	return server.NewServer(opts, a.holder, a.orch, a.logger)
}

// serve runs srv on ln until ctx is done, with tracing and catalog
// watching active for the lifetime of the server.
func (a *app) serve(ctx context.Context, srv *server.Server, ln net.Listener) error {
	tp := tracing.NewProvider("rcrm")
	tracing.Install(tp)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	watcher, err := a.watchCatalog()
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("Shutdown requested")
	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
