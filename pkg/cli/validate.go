package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/cli/config"
	"github.com/taskops/taskboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var workspaceConfigPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate workspace configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "workspace-config",
				Usage:       "Path to workspace configuration TOML file",
				Required:    true,
				Sources:     cli.EnvVars("TASKBOARD_WORKSPACE_CONFIG"),
				Destination: &workspaceConfigPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			wsCfg, err := config.LoadWorkspaceConfig(workspaceConfigPath)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"workspace_count", len(wsCfg.Workspaces),
			)
			for _, w := range wsCfg.Workspaces {
				logger.Info("Workspace validated",
					"id", w.ID,
					"name", w.Name,
					"member_count", len(w.Members),
				)
			}

			return nil
		},
	}
}
