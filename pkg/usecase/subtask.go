package usecase

import (
	"context"

	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Subtask and comment operations write to the store directly; the
// change feed reconciles the board cache within one debounce window.

// AddSubtask appends a subtask to a task
func (uc *UseCases) AddSubtask(ctx context.Context, workspaceID types.WorkspaceID, taskID types.TaskID, title string) (*model.Subtask, error) {
	subtask := &model.Subtask{
		TaskID: taskID,
		Title:  title,
	}
	if err := subtask.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.Subtask().Create(ctx, workspaceID, subtask)
}

// ToggleSubtask sets the completion flag of a subtask
func (uc *UseCases) ToggleSubtask(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, completed bool) error {
	return uc.repo.Subtask().SetCompleted(ctx, workspaceID, id, completed)
}

// RenameSubtask changes the title of a subtask
func (uc *UseCases) RenameSubtask(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, title string) error {
	return uc.repo.Subtask().Rename(ctx, workspaceID, id, title)
}

// DeleteSubtask removes a subtask
func (uc *UseCases) DeleteSubtask(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID) error {
	return uc.repo.Subtask().Delete(ctx, workspaceID, id)
}

// AddComment appends a comment to a task. Comments cannot be edited
// or removed.
func (uc *UseCases) AddComment(ctx context.Context, workspaceID types.WorkspaceID, taskID types.TaskID, authorID types.UserID, content string) (*model.Comment, error) {
	comment := &model.Comment{
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.Comment().Create(ctx, workspaceID, comment)
}
