package view

import (
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Board is a task collection grouped into the three status buckets for
// board-style rendering. Every input task lands in exactly one bucket;
// unrecognized status values fall back to the todo bucket via
// TaskStatus.Normalize.
type Board struct {
	Todo       []*model.Task
	InProgress []*model.Task
	Done       []*model.Task
}

// GroupByStatus partitions tasks by normalized status, preserving order
// within each bucket.
func GroupByStatus(tasks []*model.Task) Board {
	var b Board
	for _, t := range tasks {
		switch t.Status.Normalize() {
		case types.TaskStatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case types.TaskStatusDone:
			b.Done = append(b.Done, t)
		default:
			b.Todo = append(b.Todo, t)
		}
	}
	return b
}

// Bucket returns the tasks of a single normalized status
func (b Board) Bucket(status types.TaskStatus) []*model.Task {
	switch status.Normalize() {
	case types.TaskStatusInProgress:
		return b.InProgress
	case types.TaskStatusDone:
		return b.Done
	default:
		return b.Todo
	}
}

// Len returns the total number of tasks across all buckets
func (b Board) Len() int {
	return len(b.Todo) + len(b.InProgress) + len(b.Done)
}
