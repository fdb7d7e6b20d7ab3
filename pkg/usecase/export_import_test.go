package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/usecase"
)

func TestParseFormat(t *testing.T) {
	f, err := usecase.ParseFormat("csv")
	gt.NoError(t, err)
	gt.Value(t, f).Equal(usecase.FormatCSV)

	_, err = usecase.ParseFormat("xml")
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidFormat)).True()
}

func TestExportTasks(t *testing.T) {
	t.Run("JSON export round trips through import", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.CreateTask(ctx, wsID, usecase.CreateTaskInput{
			Title:       "exported",
			Status:      types.TaskStatusInProgress,
			Priority:    types.TaskPriorityHigh,
			DueDate:     "2024-06-10",
			CreatorID:   "U1",
			AssigneeIDs: []types.UserID{"U2"},
			Tags:        []string{"release", "infra"},
		})
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		gt.NoError(t, uc.ExportTasks(ctx, wsID, usecase.FormatJSON, &buf)).Required()

		var records []*model.TaskRecord
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &records)).Required()
		gt.Array(t, records).Length(1)
		gt.Value(t, records[0].Title).Equal("exported")
		gt.Value(t, records[0].DueDate).Equal("2024-06-10")
		gt.Array(t, records[0].AssigneeIDs).Length(1)

		// Import into a fresh workspace-scoped store.
		uc2, repo2 := newTestUseCases(t)
		result, err := uc2.ImportTasks(ctx, wsID, usecase.FormatJSON, &buf)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Created).Equal(1)
		gt.Array(t, result.Errors).Length(0)

		tasks, err := repo2.Task().List(ctx, wsID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(1)
		gt.Value(t, tasks[0].Title).Equal("exported")
		gt.Array(t, tasks[0].Tags).Length(2)
	})

	t.Run("CSV export carries all columns", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.CreateTask(ctx, wsID, usecase.CreateTaskInput{
			Title:       "row one",
			AssigneeIDs: []types.UserID{"U1", "U2"},
		})
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		gt.NoError(t, uc.ExportTasks(ctx, wsID, usecase.FormatCSV, &buf)).Required()

		rows, err := csv.NewReader(&buf).ReadAll()
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(2)
		gt.Value(t, rows[0][1]).Equal("title")
		gt.Value(t, rows[1][1]).Equal("row one")
		// Multi-valued cells join with the list separator.
		gt.Value(t, rows[1][7]).Equal("U1;U2")
	})
}

func TestImportTasks(t *testing.T) {
	t.Run("CSV import maps columns by header", func(t *testing.T) {
		uc, repo := newTestUseCases(t)
		ctx := context.Background()

		input := strings.Join([]string{
			"title,status,priority,due_date,tags",
			"first,todo,high,2024-06-10,a;b",
			"second,done,low,,",
		}, "\n")

		result, err := uc.ImportTasks(ctx, wsID, usecase.FormatCSV, strings.NewReader(input))
		gt.NoError(t, err).Required()
		gt.Value(t, result.Created).Equal(2)
		gt.Array(t, result.Errors).Length(0)

		tasks, err := repo.Task().List(ctx, wsID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(2)
	})

	t.Run("invalid rows are collected, valid ones land", func(t *testing.T) {
		uc, repo := newTestUseCases(t)
		ctx := context.Background()

		input := strings.Join([]string{
			"title,status,due_date",
			"good,todo,2024-06-10",
			",todo,",             // missing title
			"bad-status,what,",   // unknown enum
			"bad-date,todo,soon", // malformed due date
		}, "\n")

		result, err := uc.ImportTasks(ctx, wsID, usecase.FormatCSV, strings.NewReader(input))
		gt.NoError(t, err).Required()

		gt.Value(t, result.Created).Equal(1)
		gt.Array(t, result.Errors).Length(3)
		gt.Value(t, result.Errors[0].Row).Equal(2)
		gt.Value(t, result.Errors[1].Row).Equal(3)
		gt.Value(t, result.Errors[2].Row).Equal(4)

		tasks, err := repo.Task().List(ctx, wsID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(1)
		gt.Value(t, tasks[0].Title).Equal("good")
	})

	t.Run("CSV without a title column is rejected", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		_, err := uc.ImportTasks(context.Background(), wsID, usecase.FormatCSV,
			strings.NewReader("id,status\n1,todo\n"))
		gt.Value(t, err).NotNil()
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		_, err := uc.ImportTasks(context.Background(), wsID, usecase.FormatJSON,
			strings.NewReader("{not json"))
		gt.Value(t, err).NotNil()
	})
}
