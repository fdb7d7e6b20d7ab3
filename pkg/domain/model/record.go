package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// TaskRecord is the loosely-typed wire shape of a task row as the remote
// store delivers it: every field is a plain string or a child record
// list. DecodeTaskRecord is the single place raw rows become Task
// entities; view code downstream never re-coerces fields.
type TaskRecord struct {
	ID          string          `json:"id" firestore:"id"`
	WorkspaceID string          `json:"workspace_id" firestore:"workspace_id"`
	Title       string          `json:"title" firestore:"title"`
	Description string          `json:"description" firestore:"description"`
	Status      string          `json:"status" firestore:"status"`
	Priority    string          `json:"priority" firestore:"priority"`
	DueDate     string          `json:"due_date" firestore:"due_date"`
	CreatorID   string          `json:"creator_id" firestore:"creator_id"`
	AssigneeIDs []string        `json:"assignee_ids" firestore:"assignee_ids"`
	Tags        []string        `json:"tags" firestore:"tags"`
	Subtasks    []SubtaskRecord `json:"subtasks,omitempty" firestore:"-"`
	Comments    []CommentRecord `json:"comments,omitempty" firestore:"-"`
	CreatedAt   string          `json:"created_at" firestore:"created_at"`
	UpdatedAt   string          `json:"updated_at" firestore:"updated_at"`
}

// SubtaskRecord is the wire shape of a subtask row
type SubtaskRecord struct {
	ID        string `json:"id" firestore:"id"`
	TaskID    string `json:"task_id" firestore:"task_id"`
	Title     string `json:"title" firestore:"title"`
	Completed bool   `json:"completed" firestore:"completed"`
	CreatedAt string `json:"created_at" firestore:"created_at"`
}

// CommentRecord is the wire shape of a comment row
type CommentRecord struct {
	ID        string `json:"id" firestore:"id"`
	TaskID    string `json:"task_id" firestore:"task_id"`
	AuthorID  string `json:"author_id" firestore:"author_id"`
	Content   string `json:"content" firestore:"content"`
	CreatedAt string `json:"created_at" firestore:"created_at"`
}

// ErrInvalidRecord is returned when a record is missing its identity
var ErrInvalidRecord = goerr.New("invalid record")

// decodeTimestamp parses an RFC3339 timestamp, yielding the zero time
// for anything unparseable so the record still loads.
func decodeTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// DecodeTaskRecord converts a raw task row into a Task. A missing ID or
// empty title is a data-integrity error; malformed enum values, due
// dates and timestamps are preserved or zeroed so the row still renders
// through the defensive helpers instead of crashing the view.
func DecodeTaskRecord(rec *TaskRecord) (*Task, error) {
	if rec.ID == "" {
		return nil, goerr.Wrap(ErrInvalidRecord, "task record has no ID")
	}
	if rec.Title == "" {
		return nil, goerr.Wrap(ErrInvalidRecord, "task record has no title",
			goerr.V("id", rec.ID))
	}

	task := &Task{
		ID:          types.TaskID(rec.ID),
		WorkspaceID: types.WorkspaceID(rec.WorkspaceID),
		Title:       rec.Title,
		Description: rec.Description,
		Status:      types.TaskStatus(rec.Status),
		Priority:    types.TaskPriority(rec.Priority),
		DueDate:     rec.DueDate,
		CreatorID:   types.UserID(rec.CreatorID),
		AssigneeIDs: make([]types.UserID, 0, len(rec.AssigneeIDs)),
		Tags:        append([]string{}, rec.Tags...),
		CreatedAt:   decodeTimestamp(rec.CreatedAt),
		UpdatedAt:   decodeTimestamp(rec.UpdatedAt),
	}
	for _, id := range rec.AssigneeIDs {
		task.AssigneeIDs = append(task.AssigneeIDs, types.UserID(id))
	}

	for _, sr := range rec.Subtasks {
		task.Subtasks = append(task.Subtasks, &Subtask{
			ID:        types.SubtaskID(sr.ID),
			TaskID:    task.ID,
			Title:     sr.Title,
			Completed: sr.Completed,
			CreatedAt: decodeTimestamp(sr.CreatedAt),
		})
	}
	for _, cr := range rec.Comments {
		task.Comments = append(task.Comments, &Comment{
			ID:        types.CommentID(cr.ID),
			TaskID:    task.ID,
			AuthorID:  types.UserID(cr.AuthorID),
			Content:   cr.Content,
			CreatedAt: decodeTimestamp(cr.CreatedAt),
		})
	}

	return task, nil
}

// EncodeTaskRecord converts a Task back to its wire shape, used by the
// export utilities and the memory backend.
func EncodeTaskRecord(t *Task) *TaskRecord {
	rec := &TaskRecord{
		ID:          t.ID.String(),
		WorkspaceID: t.WorkspaceID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		DueDate:     t.DueDate,
		CreatorID:   t.CreatorID.String(),
		AssigneeIDs: make([]string, 0, len(t.AssigneeIDs)),
		Tags:        append([]string{}, t.Tags...),
	}
	if !t.CreatedAt.IsZero() {
		rec.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !t.UpdatedAt.IsZero() {
		rec.UpdatedAt = t.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, id := range t.AssigneeIDs {
		rec.AssigneeIDs = append(rec.AssigneeIDs, id.String())
	}
	for _, st := range t.Subtasks {
		sr := SubtaskRecord{
			ID:        st.ID.String(),
			TaskID:    st.TaskID.String(),
			Title:     st.Title,
			Completed: st.Completed,
		}
		if !st.CreatedAt.IsZero() {
			sr.CreatedAt = st.CreatedAt.UTC().Format(time.RFC3339)
		}
		rec.Subtasks = append(rec.Subtasks, sr)
	}
	for _, cm := range t.Comments {
		cr := CommentRecord{
			ID:       cm.ID.String(),
			TaskID:   cm.TaskID.String(),
			AuthorID: cm.AuthorID.String(),
			Content:  cm.Content,
		}
		if !cm.CreatedAt.IsZero() {
			cr.CreatedAt = cm.CreatedAt.UTC().Format(time.RFC3339)
		}
		rec.Comments = append(rec.Comments, cr)
	}
	return rec
}
