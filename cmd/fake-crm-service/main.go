// Command fake-crm-service runs the in-memory CRM service that the contract tests can be pointed
// at with --url.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claimconnectors/crm-contract-tests/fakecrm"
	"github.com/claimconnectors/crm-contract-tests/framework"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "fake-crm-service",
	Short:        "In-memory Claim Connectors CRM service for running the contract tests against",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger, err := framework.NewLoggerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := fakecrm.Load(configPath)
	if err != nil {
		logger.Error("config", zap.Error(err))
		return err
	}

	server := fakecrm.NewServer(cfg, fakecrm.NewStore(nil), logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.Strings("capabilities", cfg.Capabilities))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("graceful shutdown triggered")
	case <-server.Stopped():
		logger.Info("shutdown requested by client")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
