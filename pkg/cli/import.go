package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/cli/config"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/usecase"
	"github.com/taskops/taskboard/pkg/utils/logging"
	"github.com/taskops/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var workspaceConfigPath string
	var workspaceID string
	var format string
	var input string
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
			Usage:       "Workspace to import tasks into",
			Required:    true,
			Sources:     cli.EnvVars("TASKBOARD_WORKSPACE_ID"),
			Destination: &workspaceID,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Import format (csv or json)",
			Value:       "json",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Input file path (required)",
			Required:    true,
			Destination: &input,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import tasks into a workspace from CSV or JSON",
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

			// #nosec G304 - path is expected to be provided by CLI argument
			f, err := os.Open(input)
			if err != nil {
				return goerr.Wrap(err, "failed to open input file", goerr.V("path", input))
			}
			defer safe.Close(ctx, f)

			uc := usecase.New(repo, registry)
			result, err := uc.ImportTasks(ctx, types.WorkspaceID(workspaceID), fmtVal, f)
			if err != nil {
				return goerr.Wrap(err, "failed to import tasks")
			}

			for _, rowErr := range result.Errors {
				logging.Default().Warn("Import row rejected",
					"row", rowErr.Row, "error", rowErr.Err.Error())
			}
			logging.Default().Info("Import completed",
				"workspace_id", workspaceID,
				"created", result.Created,
				"rejected", len(result.Errors))

			if len(result.Errors) > 0 {
				return fmt.Errorf("import rejected %d row(s)", len(result.Errors))
			}
			return nil
		},
	}
}
