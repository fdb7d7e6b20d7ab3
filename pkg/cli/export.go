package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/cli/config"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/usecase"
	"github.com/taskops/taskboard/pkg/utils/logging"
	"github.com/taskops/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var workspaceConfigPath string
	var workspaceID string
	var format string
	var output string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace-config",
			Usage:       "Path to workspace configuration TOML file",
			Required:    true,
			Sources:     cli.EnvVars("TASKBOARD_WORKSPACE_CONFIG"),
			Destination: &workspaceConfigPath,
		},
		&cli.StringFlag{
			Name:        "workspace-id",
			Usage:       "Workspace to export tasks from",
			Required:    true,
			Sources:     cli.EnvVars("TASKBOARD_WORKSPACE_ID"),
			Destination: &workspaceID,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Export format (csv or json)",
			Value:       "json",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (default: stdout)",
			Destination: &output,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export a workspace's tasks to CSV or JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fmtVal, err := usecase.ParseFormat(format)
			if err != nil {
				return err
			}

			wsCfg, err := config.LoadWorkspaceConfig(workspaceConfigPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load workspace configuration")
			}
			registry := wsCfg.ToRegistry()
			if _, err := registry.Get(types.WorkspaceID(workspaceID)); err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			uc := usecase.New(repo, registry)
			if err := uc.ExportTasks(ctx, types.WorkspaceID(workspaceID), fmtVal, w); err != nil {
				return goerr.Wrap(err, "failed to export tasks")
			}

			logging.Default().Info("Export completed",
				"workspace_id", workspaceID, "format", format, "output", output)
			return nil
		},
	}
}
