package scanyard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scanyard/scanyard/internal/api"
	"github.com/scanyard/scanyard/internal/gitfetch"
	"github.com/scanyard/scanyard/internal/logging"
	"github.com/scanyard/scanyard/internal/orchestrator"
	"github.com/scanyard/scanyard/internal/queue"
	"github.com/scanyard/scanyard/internal/runtime"
	"github.com/scanyard/scanyard/internal/store"
)

var (
	flagServeListen      string
	flagServeWorkers     int
	flagServeImage       string
	flagServeTimeout     int
	flagServeDatabaseURL string
	flagServeWorkspace   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan service HTTP API",
		RunE:  runServe,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagServeListen, "listen", "", "listen address")
	cmd.Flags().IntVar(&flagServeWorkers, "workers", 0, "scan worker count")
	cmd.Flags().StringVar(&flagServeImage, "image", "", "scanner image to run")
	cmd.Flags().IntVar(&flagServeTimeout, "timeout", 0, "per-scan timeout in seconds (0 = default)")
	cmd.Flags().StringVar(&flagServeDatabaseURL, "database-url", "", "PostgreSQL DSN for scan persistence")
	cmd.Flags().StringVar(&flagServeWorkspace, "workspace-dir", "", "directory for job workspaces (default: system temp)")
}

func runServe(*cobra.Command, []string) error {
	s, err := resolveSettings(flagServeImage, flagServeTimeout, flagServeWorkers, flagServeDatabaseURL, flagServeListen, flagServeWorkspace)
	if err != nil {
		return err
	}
	log := logging.New(flagVerbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return fmt.Errorf("connect to container runtime: %w", err)
	}
	defer rt.Close()

	var st store.Store = store.Noop{}
	if s.databaseURL != "" {
		pg, err := store.NewPostgres(ctx, s.databaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pg.Close()
		st = pg
		log.Info("scan persistence enabled")
	} else {
		log.Info("scan persistence disabled; set DATABASE_URL to enable")
	}

	var opts []orchestrator.Option
	if s.workspaceDir != "" {
		opts = append(opts, orchestrator.WithBaseDir(s.workspaceDir))
	}
	orch := orchestrator.New(gitfetch.NewGitFetcher(), rt, log, opts...)

	q := queue.New(func(ctx context.Context, gitURL string) (*orchestrator.ScanResult, error) {
		return orch.RunScan(ctx, gitURL, s.image, s.timeout)
	}, st, log, s.workers)
	q.Start(ctx)

	srv := &http.Server{
		Addr:              s.listen,
		Handler:           api.NewServer(log, q, st).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", s.listen, "image", s.image, "workers", s.workers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	if err := q.Wait(); err != nil {
		log.Error("queue drain failed", "error", err)
	}
	return nil
}
