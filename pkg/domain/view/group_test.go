package view_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/domain/view"
)

func TestGroupByStatus(t *testing.T) {
	tasks := []*model.Task{
		{ID: "a", Title: "t", Status: types.TaskStatusTodo},
		{ID: "b", Title: "t", Status: types.TaskStatusInProgress},
		{ID: "c", Title: "t", Status: types.TaskStatusDone},
		{ID: "d", Title: "t", Status: "archived"}, // unknown
		{ID: "e", Title: "t", Status: ""},         // empty
		{ID: "f", Title: "t", Status: types.TaskStatusTodo},
	}

	b := view.GroupByStatus(tasks)

	t.Run("every task lands in exactly one bucket", func(t *testing.T) {
		gt.Value(t, b.Len()).Equal(len(tasks))
	})

	t.Run("unknown statuses fall back to todo", func(t *testing.T) {
		gt.Array(t, b.Todo).Length(4)
		gt.Array(t, b.InProgress).Length(1)
		gt.Array(t, b.Done).Length(1)
	})

	t.Run("bucket order preserves input order", func(t *testing.T) {
		gt.Value(t, b.Todo[0].ID).Equal(types.TaskID("a"))
		gt.Value(t, b.Todo[1].ID).Equal(types.TaskID("d"))
		gt.Value(t, b.Todo[2].ID).Equal(types.TaskID("e"))
		gt.Value(t, b.Todo[3].ID).Equal(types.TaskID("f"))
	})

	t.Run("Bucket normalizes its argument", func(t *testing.T) {
		gt.Array(t, b.Bucket("nonsense")).Length(4)
		gt.Array(t, b.Bucket(types.TaskStatusDone)).Length(1)
	})
}
