package interfaces

import (
	"context"

	"github.com/taskops/taskboard/pkg/domain/types"
)

// ChangeEvent notifies that something changed in one of the store's
// tables. It deliberately carries no row payload; consumers respond by
// re-fetching, never by applying the event as a delta.
type ChangeEvent struct {
	WorkspaceID types.WorkspaceID
	Table       string
}

// Repository defines the interface for the remote task store
type Repository interface {
	Task() TaskRepository
	Subtask() SubtaskRepository
	Comment() CommentRepository
	User() UserRepository

	// Watch delivers a change notification whenever a row in the task
	// tables of the workspace is inserted, updated or deleted. The
	// channel is closed when ctx is done or the repository is closed.
	Watch(ctx context.Context, workspaceID types.WorkspaceID) (<-chan ChangeEvent, error)

	Close() error
}
