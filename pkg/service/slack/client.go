package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/taskops/taskboard/pkg/domain/model"
)

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// New creates a new Slack notifier posting to the given channel
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

func (c *client) NotifyTaskCreated(ctx context.Context, task *model.Task) error {
	text := fmt.Sprintf("New task: *%s*", task.Title)
	return c.post(ctx, text, task)
}

func (c *client) NotifyTaskAssigned(ctx context.Context, task *model.Task) error {
	text := fmt.Sprintf("Task assigned: *%s*", task.Title)
	return c.post(ctx, text, task)
}

func (c *client) post(ctx context.Context, text string, task *model.Task) error {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Priority:* %s", task.Priority.String()), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Status:* %s", task.Status.Normalize().String()), false, false),
	}
	if label := task.DueDateLabel(); label != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Due:* %s", label), false, false))
	}
	if len(task.AssigneeIDs) > 0 {
		ids := make([]string, 0, len(task.AssigneeIDs))
		for _, id := range task.AssigneeIDs {
			ids = append(ids, id.String())
		}
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Assignees:* %s", strings.Join(ids, ", ")), false, false))
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		),
		slack.NewSectionBlock(nil, fields, nil),
	}

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", c.channel), goerr.V("task_id", task.ID))
	}
	return nil
}
