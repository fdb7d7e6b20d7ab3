package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// CreateTaskInput carries the fields of a new task. Status and
// Priority default to todo/medium when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      types.TaskStatus
	Priority    types.TaskPriority
	DueDate     string
	CreatorID   types.UserID
	AssigneeIDs []types.UserID
	Tags        []string
}

func (in *CreateTaskInput) validate() error {
	if in.Title == "" {
		return goerr.Wrap(ErrTitleRequired, "title is required")
	}
	if in.Status == "" {
		in.Status = types.TaskStatusTodo
	}
	if !in.Status.IsValid() {
		return goerr.Wrap(ErrInvalidStatus, "invalid status", goerr.V("status", in.Status))
	}
	if in.Priority == "" {
		in.Priority = types.TaskPriorityMedium
	}
	if !in.Priority.IsValid() {
		return goerr.Wrap(ErrInvalidPriority, "invalid priority", goerr.V("priority", in.Priority))
	}
	if in.DueDate != "" {
		if _, err := time.Parse(model.DueDateLayout, in.DueDate); err != nil {
			return goerr.Wrap(ErrInvalidDueDate, "invalid due date", goerr.V("due_date", in.DueDate))
		}
	}
	return nil
}

// CreateTask creates a task through the optimistic layer and notifies
// the Slack channel when a notifier is configured.
func (uc *UseCases) CreateTask(ctx context.Context, workspaceID types.WorkspaceID, input CreateTaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	cache, err := uc.Board(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatorID:   input.CreatorID,
		AssigneeIDs: input.AssigneeIDs,
		Tags:        input.Tags,
	}

	created, err := cache.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.notifyCreated(ctx, created)
	return created, nil
}

// UpdateTask applies a partial update through the optimistic layer
func (uc *UseCases) UpdateTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, patch model.TaskPatch) (*model.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	cache, err := uc.Board(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if err := cache.Mutate(ctx, id, patch); err != nil {
		return nil, err
	}

	updated, err := cache.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.AssigneeIDs != nil {
		uc.notifyAssigned(ctx, updated)
	}
	return updated, nil
}

// MoveTask changes only the status of a task
func (uc *UseCases) MoveTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, status types.TaskStatus) (*model.Task, error) {
	return uc.UpdateTask(ctx, workspaceID, id, model.TaskPatch{Status: &status})
}

// DeleteTask removes a task through the optimistic layer
func (uc *UseCases) DeleteTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) error {
	cache, err := uc.Board(ctx, workspaceID)
	if err != nil {
		return err
	}
	return cache.Delete(ctx, id)
}

// GetTask returns a task from the board cache
func (uc *UseCases) GetTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (*model.Task, error) {
	cache, err := uc.Board(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return cache.Get(id)
}

func validatePatch(patch model.TaskPatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return goerr.Wrap(ErrTitleRequired, "title cannot be cleared")
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return goerr.Wrap(ErrInvalidStatus, "invalid status", goerr.V("status", *patch.Status))
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return goerr.Wrap(ErrInvalidPriority, "invalid priority", goerr.V("priority", *patch.Priority))
	}
	if patch.DueDate != nil && *patch.DueDate != "" {
		if _, err := time.Parse(model.DueDateLayout, *patch.DueDate); err != nil {
			return goerr.Wrap(ErrInvalidDueDate, "invalid due date", goerr.V("due_date", *patch.DueDate))
		}
	}
	return nil
}

func (uc *UseCases) notifyCreated(ctx context.Context, task *model.Task) {
	if uc.notifier == nil {
		return
	}
	t := task.Clone()
	notifier := uc.notifier
	// Notifications never block or fail the initiating action.
	asyncNotify(ctx, func(ctx context.Context) error {
		return notifier.NotifyTaskCreated(ctx, t)
	})
}

func (uc *UseCases) notifyAssigned(ctx context.Context, task *model.Task) {
	if uc.notifier == nil {
		return
	}
	t := task.Clone()
	notifier := uc.notifier
	asyncNotify(ctx, func(ctx context.Context) error {
		return notifier.NotifyTaskAssigned(ctx, t)
	})
}
