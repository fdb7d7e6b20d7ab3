package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Format selects the file format of export and import
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", goerr.Wrap(ErrInvalidFormat, "unknown format", goerr.V("format", s))
	}
}

var csvHeader = []string{
	"id", "title", "description", "status", "priority", "due_date",
	"creator_id", "assignee_ids", "tags", "created_at", "updated_at",
}

// multi-valued CSV cells join with this separator
const csvListSep = ";"

// ExportTasks writes the workspace's full task collection to w.
// The export reads from the store, not the cache, so it never contains
// optimistic placeholders.
func (uc *UseCases) ExportTasks(ctx context.Context, workspaceID types.WorkspaceID, format Format, w io.Writer) error {
	tasks, err := uc.repo.Task().List(ctx, workspaceID)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch tasks for export",
			goerr.V("workspace_id", workspaceID))
	}

	records := make([]*model.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, model.EncodeTaskRecord(t))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return goerr.Wrap(err, "failed to encode tasks")
		}
		return nil

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return goerr.Wrap(err, "failed to write CSV header")
		}
		for _, rec := range records {
			row := []string{
				rec.ID, rec.Title, rec.Description, rec.Status, rec.Priority,
				rec.DueDate, rec.CreatorID,
				strings.Join(rec.AssigneeIDs, csvListSep),
				strings.Join(rec.Tags, csvListSep),
				rec.CreatedAt, rec.UpdatedAt,
			}
			if err := cw.Write(row); err != nil {
				return goerr.Wrap(err, "failed to write CSV row", goerr.V("id", rec.ID))
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return goerr.Wrap(err, "failed to flush CSV")
		}
		return nil

	default:
		return goerr.Wrap(ErrInvalidFormat, "unknown format", goerr.V("format", format))
	}
}

// ImportRowError describes one rejected import row
type ImportRowError struct {
	Row int
	Err error
}

// ImportResult summarizes an import run
type ImportResult struct {
	Created int
	Errors  []ImportRowError
}

// ImportTasks reads task rows from r, validates each through the
// record decode boundary, and inserts the valid ones. Invalid rows are
// collected per-row instead of aborting the run; the store's IDs and
// timestamps win over whatever the file carries.
func (uc *UseCases) ImportTasks(ctx context.Context, workspaceID types.WorkspaceID, format Format, r io.Reader) (*ImportResult, error) {
	var records []*model.TaskRecord
	var err error

	switch format {
	case FormatJSON:
		records, err = readJSONRecords(r)
	case FormatCSV:
		records, err = readCSVRecords(r)
	default:
		return nil, goerr.Wrap(ErrInvalidFormat, "unknown format", goerr.V("format", format))
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, rec := range records {
		row := i + 1

		if rec.ID == "" {
			rec.ID = types.NewTaskID().String()
		}
		task, err := model.DecodeTaskRecord(rec)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Err: err})
			continue
		}
		if err := task.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Err: err})
			continue
		}
		if task.Status == "" {
			task.Status = types.TaskStatusTodo
		}
		if task.Priority == "" {
			task.Priority = types.TaskPriorityMedium
		}

		if _, err := uc.repo.Task().Create(ctx, workspaceID, task); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Err: err})
			continue
		}
		result.Created++
	}

	return result, nil
}

func readJSONRecords(r io.Reader) ([]*model.TaskRecord, error) {
	var records []*model.TaskRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, goerr.Wrap(err, "failed to parse JSON import")
	}
	return records, nil
}

func readCSVRecords(r io.Reader) ([]*model.TaskRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse CSV import")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, goerr.New("CSV import requires a title column")
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]*model.TaskRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := &model.TaskRecord{
			ID:          field(row, "id"),
			Title:       field(row, "title"),
			Description: field(row, "description"),
			Status:      field(row, "status"),
			Priority:    field(row, "priority"),
			DueDate:     field(row, "due_date"),
			CreatorID:   field(row, "creator_id"),
			CreatedAt:   field(row, "created_at"),
			UpdatedAt:   field(row, "updated_at"),
		}
		if v := field(row, "assignee_ids"); v != "" {
			rec.AssigneeIDs = strings.Split(v, csvListSep)
		}
		if v := field(row, "tags"); v != "" {
			rec.Tags = strings.Split(v, csvListSep)
		}
		records = append(records, rec)
	}
	return records, nil
}
