package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

func TestTaskPatch(t *testing.T) {
	t.Run("nil fields leave the task untouched", func(t *testing.T) {
		task := &model.Task{
			Title:    "keep",
			Status:   types.TaskStatusInProgress,
			Priority: types.TaskPriorityHigh,
			DueDate:  "2024-06-10",
		}

		desc := "new description"
		model.TaskPatch{Description: &desc}.Apply(task)

		gt.Value(t, task.Title).Equal("keep")
		gt.Value(t, task.Status).Equal(types.TaskStatusInProgress)
		gt.Value(t, task.Description).Equal("new description")
	})

	t.Run("explicit empty due date clears it", func(t *testing.T) {
		task := &model.Task{Title: "t", DueDate: "2024-06-10"}
		empty := ""
		model.TaskPatch{DueDate: &empty}.Apply(task)
		gt.Value(t, task.DueDate).Equal("")
	})

	t.Run("assignee list is replaced, not merged", func(t *testing.T) {
		task := &model.Task{Title: "t", AssigneeIDs: []types.UserID{"U1", "U2"}}
		model.TaskPatch{AssigneeIDs: []types.UserID{"U3"}}.Apply(task)
		gt.Array(t, task.AssigneeIDs).Length(1)
		gt.Value(t, task.AssigneeIDs[0]).Equal(types.UserID("U3"))
	})

	t.Run("IsEmpty", func(t *testing.T) {
		gt.Bool(t, model.TaskPatch{}.IsEmpty()).True()
		s := types.TaskStatusDone
		gt.Bool(t, model.TaskPatch{Status: &s}.IsEmpty()).False()
	})
}
