package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/types"
)

func TestTaskStatus(t *testing.T) {
	t.Run("IsValid accepts known statuses", func(t *testing.T) {
		gt.Bool(t, types.TaskStatusTodo.IsValid()).True()
		gt.Bool(t, types.TaskStatusInProgress.IsValid()).True()
		gt.Bool(t, types.TaskStatusDone.IsValid()).True()
	})

	t.Run("IsValid rejects unknown values", func(t *testing.T) {
		gt.Bool(t, types.TaskStatus("archived").IsValid()).False()
		gt.Bool(t, types.TaskStatus("").IsValid()).False()
		gt.Bool(t, types.TaskStatus("TODO").IsValid()).False()
	})

	t.Run("Normalize keeps valid statuses", func(t *testing.T) {
		gt.Value(t, types.TaskStatusDone.Normalize()).Equal(types.TaskStatusDone)
		gt.Value(t, types.TaskStatusInProgress.Normalize()).Equal(types.TaskStatusInProgress)
	})

	t.Run("Normalize falls back to todo for unknown values", func(t *testing.T) {
		gt.Value(t, types.TaskStatus("archived").Normalize()).Equal(types.TaskStatusTodo)
		gt.Value(t, types.TaskStatus("").Normalize()).Equal(types.TaskStatusTodo)
	})
}

func TestTaskPriority(t *testing.T) {
	t.Run("Weight orders priorities", func(t *testing.T) {
		gt.Value(t, types.TaskPriorityHigh.Weight()).Equal(3)
		gt.Value(t, types.TaskPriorityMedium.Weight()).Equal(2)
		gt.Value(t, types.TaskPriorityLow.Weight()).Equal(1)
	})

	t.Run("Weight is zero for unknown values", func(t *testing.T) {
		gt.Value(t, types.TaskPriority("urgent").Weight()).Equal(0)
		gt.Value(t, types.TaskPriority("").Weight()).Equal(0)
	})

	t.Run("IsValid rejects unknown values", func(t *testing.T) {
		gt.Bool(t, types.TaskPriorityLow.IsValid()).True()
		gt.Bool(t, types.TaskPriority("urgent").IsValid()).False()
	})
}

func TestPlaceholderTaskID(t *testing.T) {
	t.Run("placeholder IDs are marked", func(t *testing.T) {
		id := types.NewPlaceholderTaskID()
		gt.Bool(t, id.IsPlaceholder()).True()
	})

	t.Run("store IDs are not placeholders", func(t *testing.T) {
		id := types.NewTaskID()
		gt.Bool(t, id.IsPlaceholder()).False()
	})

	t.Run("generated IDs are unique", func(t *testing.T) {
		gt.Value(t, types.NewTaskID()).NotEqual(types.NewTaskID())
	})
}
