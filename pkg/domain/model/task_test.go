package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

func TestTaskDueDate(t *testing.T) {
	t.Run("parses a valid calendar date", func(t *testing.T) {
		task := &model.Task{Title: "t", DueDate: "2024-06-10"}
		d, ok := task.DueDateTime()
		gt.Bool(t, ok).True()
		gt.Value(t, d.Year()).Equal(2024)
		gt.Value(t, d.Month()).Equal(time.June)
		gt.Value(t, d.Day()).Equal(10)
	})

	t.Run("empty due date parses as none", func(t *testing.T) {
		task := &model.Task{Title: "t"}
		_, ok := task.DueDateTime()
		gt.Bool(t, ok).False()
		gt.Value(t, task.DueDateLabel()).Equal("")
	})

	t.Run("malformed due date parses as none", func(t *testing.T) {
		for _, raw := range []string{"not-a-date", "2024-13-40", "06/10/2024"} {
			task := &model.Task{Title: "t", DueDate: raw}
			_, ok := task.DueDateTime()
			gt.Bool(t, ok).False()
			gt.Value(t, task.DueDateLabel()).Equal(model.InvalidDateLabel)
		}
	})

	t.Run("valid due date labels as itself", func(t *testing.T) {
		task := &model.Task{Title: "t", DueDate: "2024-06-10"}
		gt.Value(t, task.DueDateLabel()).Equal("2024-06-10")
	})
}

func TestTaskValidate(t *testing.T) {
	t.Run("accepts a minimal task", func(t *testing.T) {
		task := &model.Task{Title: "write release notes"}
		gt.NoError(t, task.Validate())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		task := &model.Task{}
		gt.Value(t, task.Validate()).NotNil()
	})

	t.Run("rejects unknown status and priority", func(t *testing.T) {
		gt.Value(t, (&model.Task{Title: "t", Status: "archived"}).Validate()).NotNil()
		gt.Value(t, (&model.Task{Title: "t", Priority: "urgent"}).Validate()).NotNil()
	})

	t.Run("rejects malformed due date", func(t *testing.T) {
		task := &model.Task{Title: "t", DueDate: "tomorrow"}
		gt.Value(t, task.Validate()).NotNil()
	})
}

func TestTaskIsMine(t *testing.T) {
	task := &model.Task{
		Title:       "t",
		CreatorID:   "U1",
		AssigneeIDs: []types.UserID{"U2", "U3"},
	}

	gt.Bool(t, task.IsMine("U1")).True()
	gt.Bool(t, task.IsMine("U2")).True()
	gt.Bool(t, task.IsMine("U9")).False()

	// An empty viewer matches nothing, even tasks with no creator.
	gt.Bool(t, (&model.Task{Title: "t"}).IsMine("")).False()
}

func TestTaskClone(t *testing.T) {
	orig := &model.Task{
		ID:          "task-1",
		Title:       "original",
		AssigneeIDs: []types.UserID{"U1"},
		Tags:        []string{"infra"},
		Subtasks:    []*model.Subtask{{ID: "st-1", TaskID: "task-1", Title: "step"}},
		Comments:    []*model.Comment{{ID: "c-1", TaskID: "task-1", Content: "note"}},
	}

	copied := orig.Clone()
	copied.Title = "changed"
	copied.AssigneeIDs[0] = "U9"
	copied.Tags[0] = "changed"
	copied.Subtasks[0].Title = "changed"
	copied.Comments[0].Content = "changed"

	gt.Value(t, orig.Title).Equal("original")
	gt.Value(t, orig.AssigneeIDs[0]).Equal(types.UserID("U1"))
	gt.Value(t, orig.Tags[0]).Equal("infra")
	gt.Value(t, orig.Subtasks[0].Title).Equal("step")
	gt.Value(t, orig.Comments[0].Content).Equal("note")
}
