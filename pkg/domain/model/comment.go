package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Comment is a child item of a task, oldest first.
// Comments are append-only; there is no edit or delete path.
type Comment struct {
	ID        types.CommentID
	TaskID    types.TaskID
	AuthorID  types.UserID
	Content   string
	CreatedAt time.Time
}

// Validate checks the comment before it is sent to the remote store
func (c *Comment) Validate() error {
	if c.TaskID == "" {
		return goerr.New("comment requires a parent task")
	}
	if c.Content == "" {
		return goerr.New("comment content is required")
	}
	return nil
}
