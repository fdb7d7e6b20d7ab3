package slack

import (
	"context"

	"github.com/taskops/taskboard/pkg/domain/model"
)

// Service posts task notifications to a Slack channel
type Service interface {
	// NotifyTaskCreated announces a newly created task
	NotifyTaskCreated(ctx context.Context, task *model.Task) error

	// NotifyTaskAssigned announces an assignment change on a task
	NotifyTaskAssigned(ctx context.Context, task *model.Task) error
}
