package config

import (
	"log/slog"

	slacksvc "github.com/taskops/taskboard/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for task notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel to post task notifications to",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured checks if Slack configuration is complete
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Configure creates a Slack notifier if configured, otherwise returns nil
func (x *Slack) Configure() (slacksvc.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	return slacksvc.New(x.botToken, x.channel)
}
