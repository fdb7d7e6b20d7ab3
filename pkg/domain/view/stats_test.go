package view_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/domain/view"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	loc := time.UTC

	tasks := []*model.Task{
		// Overdue: due yesterday, not done.
		{ID: "a", Title: "t", Status: types.TaskStatusTodo, DueDate: "2024-06-09"},
		// Not overdue: done tasks never count even when past due.
		{ID: "b", Title: "t", Status: types.TaskStatusDone, DueDate: "2024-06-01"},
		// Due today.
		{ID: "c", Title: "t", Status: types.TaskStatusInProgress, DueDate: "2024-06-10"},
		// Future due date counts as neither.
		{ID: "d", Title: "t", Status: types.TaskStatusTodo, DueDate: "2024-06-11"},
		// Malformed due date counts as neither.
		{ID: "e", Title: "t", Status: types.TaskStatusTodo, DueDate: "someday"},
		// No due date, mine via assignee.
		{ID: "f", Title: "t", Status: "archived", AssigneeIDs: []types.UserID{"U1"}},
		// Mine via creator, overdue.
		{ID: "g", Title: "t", Status: types.TaskStatusTodo, CreatorID: "U1", DueDate: "2024-05-01"},
	}

	s := view.Summarize(tasks, "U1", now, loc)

	gt.Value(t, s.Total).Equal(7)
	// "archived" normalizes into the todo count.
	gt.Value(t, s.Todo).Equal(5)
	gt.Value(t, s.InProgress).Equal(1)
	gt.Value(t, s.Done).Equal(1)
	gt.Value(t, s.Overdue).Equal(2)
	gt.Value(t, s.DueToday).Equal(1)
	gt.Value(t, s.Mine).Equal(2)
}

func TestSummarizeDayBoundary(t *testing.T) {
	// 23:59 local time: a task due today is still due-today, not overdue.
	now := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	tasks := []*model.Task{
		{ID: "a", Title: "t", Status: types.TaskStatusTodo, DueDate: "2024-06-10"},
	}

	s := view.Summarize(tasks, "", now, time.UTC)
	gt.Value(t, s.Overdue).Equal(0)
	gt.Value(t, s.DueToday).Equal(1)
}

func TestSummarizeEmptyViewer(t *testing.T) {
	tasks := []*model.Task{
		{ID: "a", Title: "t", CreatorID: "U1"},
	}
	s := view.Summarize(tasks, "", time.Now(), time.UTC)
	gt.Value(t, s.Mine).Equal(0)
}
