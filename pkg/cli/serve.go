package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/cli/config"
	httpctrl "github.com/taskops/taskboard/pkg/controller/http"
	"github.com/taskops/taskboard/pkg/usecase"
	"github.com/taskops/taskboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var workspaceConfigPath string
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "workspace-config",
			Usage:       "Path to workspace configuration TOML file",
			Required:    true,
			Sources:     cli.EnvVars("TASKBOARD_WORKSPACE_CONFIG"),
			Destination: &workspaceConfigPath,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load workspace configuration and build registry
			wsCfg, err := config.LoadWorkspaceConfig(workspaceConfigPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load workspace configuration")
			}
			registry := wsCfg.ToRegistry()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize use cases with optional Slack notifier
			var ucOpts []usecase.Option
			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notifications enabled")
			} else {
				logging.Default().Info("Slack not configured, notifications disabled")
			}

			uc := usecase.New(repo, registry, ucOpts...)
			if err := uc.Init(ctx); err != nil {
				return goerr.Wrap(err, "failed to initialize use cases")
			}
			defer uc.Close()

			// Create HTTP server
			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr,
					"workspaces", len(registry.Workspaces()))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
