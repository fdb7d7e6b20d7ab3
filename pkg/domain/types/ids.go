package types

import (
	"strings"

	"github.com/google/uuid"
)

// TaskID is the opaque identifier of a task, stable for its lifetime
type TaskID string

// NewTaskID generates a new task ID
func NewTaskID() TaskID {
	return TaskID(uuid.New().String())
}

// placeholderPrefix marks locally-synthesized IDs used for optimistic
// creates. The remote store never issues IDs with this prefix, so any
// full reload drops placeholder records naturally.
const placeholderPrefix = "tmp-"

// NewPlaceholderTaskID generates a temporary ID for an optimistic create
func NewPlaceholderTaskID() TaskID {
	return TaskID(placeholderPrefix + uuid.New().String())
}

// IsPlaceholder reports whether the ID was synthesized locally
func (id TaskID) IsPlaceholder() bool {
	return strings.HasPrefix(string(id), placeholderPrefix)
}

func (id TaskID) String() string {
	return string(id)
}

// SubtaskID is the opaque identifier of a subtask
type SubtaskID string

// NewSubtaskID generates a new subtask ID
func NewSubtaskID() SubtaskID {
	return SubtaskID(uuid.New().String())
}

func (id SubtaskID) String() string {
	return string(id)
}

// CommentID is the opaque identifier of a comment
type CommentID string

// NewCommentID generates a new comment ID
func NewCommentID() CommentID {
	return CommentID(uuid.New().String())
}

func (id CommentID) String() string {
	return string(id)
}

// UserID identifies a user; referenced by creator, assignee and author fields
type UserID string

func (id UserID) String() string {
	return string(id)
}

// WorkspaceID groups tasks; used as a scoping key throughout
type WorkspaceID string

func (id WorkspaceID) String() string {
	return string(id)
}
