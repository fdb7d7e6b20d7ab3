package view_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/domain/view"
)

func TestFilterMatch(t *testing.T) {
	task := &model.Task{
		ID:          "task-1",
		Title:       "fix flaky test",
		Status:      types.TaskStatusInProgress,
		Priority:    types.TaskPriorityHigh,
		CreatorID:   "U1",
		AssigneeIDs: []types.UserID{"U2"},
		Tags:        []string{"ci", "infra"},
	}

	t.Run("empty filter passes everything", func(t *testing.T) {
		gt.Bool(t, view.Filter{}.Match(task)).True()
	})

	t.Run("values within a dimension are OR", func(t *testing.T) {
		f := view.Filter{Statuses: []types.TaskStatus{
			types.TaskStatusTodo, types.TaskStatusInProgress,
		}}
		gt.Bool(t, f.Match(task)).True()

		f = view.Filter{Tags: []string{"docs", "infra"}}
		gt.Bool(t, f.Match(task)).True()
	})

	t.Run("dimensions combine with AND", func(t *testing.T) {
		f := view.Filter{
			Statuses:   []types.TaskStatus{types.TaskStatusInProgress},
			Priorities: []types.TaskPriority{types.TaskPriorityLow},
		}
		gt.Bool(t, f.Match(task)).False()

		f.Priorities = []types.TaskPriority{types.TaskPriorityHigh}
		gt.Bool(t, f.Match(task)).True()
	})

	t.Run("assignee dimension matches any listed user", func(t *testing.T) {
		f := view.Filter{AssigneeIDs: []types.UserID{"U9", "U2"}}
		gt.Bool(t, f.Match(task)).True()

		f = view.Filter{AssigneeIDs: []types.UserID{"U9"}}
		gt.Bool(t, f.Match(task)).False()
	})

	t.Run("mine-only keeps creator and assignee tasks", func(t *testing.T) {
		f := view.Filter{MineOnly: true, Viewer: "U1"}
		gt.Bool(t, f.Match(task)).True()

		f.Viewer = "U2"
		gt.Bool(t, f.Match(task)).True()

		f.Viewer = "U9"
		gt.Bool(t, f.Match(task)).False()
	})
}

func TestFilterApply(t *testing.T) {
	tasks := []*model.Task{
		{ID: "a", Title: "a", Status: types.TaskStatusTodo},
		{ID: "b", Title: "b", Status: types.TaskStatusDone},
		{ID: "c", Title: "c", Status: types.TaskStatusTodo},
	}

	f := view.Filter{Statuses: []types.TaskStatus{types.TaskStatusTodo}}
	got := f.Apply(tasks)

	gt.Array(t, got).Length(2)
	// Input order is preserved.
	gt.Value(t, got[0].ID).Equal(types.TaskID("a"))
	gt.Value(t, got[1].ID).Equal(types.TaskID("c"))

	// The input slice is untouched.
	gt.Array(t, tasks).Length(3)
}
