package interfaces

import (
	"context"

	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List retrieves all tasks of the workspace with subtasks, comments,
	// tags and assignees eagerly joined.
	List(ctx context.Context, workspaceID types.WorkspaceID) ([]*model.Task, error)

	// Get retrieves a task by ID with its joins
	Get(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (*model.Task, error)

	// Create creates a new task; the store assigns ID and timestamps
	Create(ctx context.Context, workspaceID types.WorkspaceID, task *model.Task) (*model.Task, error)

	// Update applies a partial update to an existing task
	Update(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, patch model.TaskPatch) (*model.Task, error)

	// Delete deletes a task and cascades removal of its subtasks,
	// comments, tag links and assignee links.
	Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) error
}

// SubtaskRepository defines the interface for subtask data access
type SubtaskRepository interface {
	Create(ctx context.Context, workspaceID types.WorkspaceID, subtask *model.Subtask) (*model.Subtask, error)
	SetCompleted(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, completed bool) error
	Rename(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, title string) error
	Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID) error
}

// CommentRepository defines the interface for comment data access.
// Comments are append-only.
type CommentRepository interface {
	Create(ctx context.Context, workspaceID types.WorkspaceID, comment *model.Comment) (*model.Comment, error)
}

// UserRepository defines the interface for user roster access
type UserRepository interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	Put(ctx context.Context, user *model.User) error
}
