package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Subtask is a child item of a task, ordered by creation
type Subtask struct {
	ID        types.SubtaskID
	TaskID    types.TaskID
	Title     string
	Completed bool
	CreatedAt time.Time
}

// Validate checks the subtask before it is sent to the remote store
func (s *Subtask) Validate() error {
	if s.TaskID == "" {
		return goerr.New("subtask requires a parent task")
	}
	if s.Title == "" {
		return goerr.New("subtask title is required")
	}
	return nil
}
