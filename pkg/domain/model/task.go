package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// DueDateLayout is the calendar-date format the remote store uses for
// due dates. There is no time component.
const DueDateLayout = "2006-01-02"

// InvalidDateLabel is rendered in place of a due date that does not
// parse as a calendar date.
const InvalidDateLabel = "Invalid date"

// ErrInvalidTask is returned when a task fails validation
var ErrInvalidTask = goerr.New("invalid task")

// Task is the central entity of the board. Status, Priority and DueDate
// are kept exactly as the remote store delivered them; consumers that
// need a safe value go through Normalize, Weight and the DueDate helpers
// instead of reading the raw fields.
type Task struct {
	ID          types.TaskID
	WorkspaceID types.WorkspaceID
	Title       string
	Description string
	Status      types.TaskStatus
	Priority    types.TaskPriority
	// DueDate is an ISO calendar date string (YYYY-MM-DD), empty when
	// the task has no due date. It may arrive malformed from the store.
	DueDate     string
	CreatorID   types.UserID
	AssigneeIDs []types.UserID
	Tags        []string
	Subtasks    []*Subtask
	Comments    []*Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the invariants a task must satisfy before it is sent
// to the remote store.
func (t *Task) Validate() error {
	if t.Title == "" {
		return goerr.Wrap(ErrInvalidTask, "title is required")
	}
	if t.Status != "" && !t.Status.IsValid() {
		return goerr.Wrap(ErrInvalidTask, "invalid status", goerr.V("status", t.Status))
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return goerr.Wrap(ErrInvalidTask, "invalid priority", goerr.V("priority", t.Priority))
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, t.DueDate); err != nil {
			return goerr.Wrap(ErrInvalidTask, "invalid due date", goerr.V("due_date", t.DueDate))
		}
	}
	return nil
}

// DueDateTime parses the due date. The second return value is false
// when the task has no due date or the stored string is malformed;
// it never fails loudly.
func (t *Task) DueDateTime() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DueDateLabel returns the display form of the due date: the date
// itself, empty for no due date, or InvalidDateLabel for a malformed one.
func (t *Task) DueDateLabel() string {
	if t.DueDate == "" {
		return ""
	}
	if _, ok := t.DueDateTime(); !ok {
		return InvalidDateLabel
	}
	return t.DueDate
}

// HasAssignee reports whether the user is in the assignee set
func (t *Task) HasAssignee(userID types.UserID) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTag reports whether the task carries the tag
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// IsMine reports whether the viewer created the task or is assigned to it
func (t *Task) IsMine(viewer types.UserID) bool {
	if viewer == "" {
		return false
	}
	return t.CreatorID == viewer || t.HasAssignee(viewer)
}

// Clone creates a deep copy of the task
func (t *Task) Clone() *Task {
	copied := *t

	copied.AssigneeIDs = make([]types.UserID, len(t.AssigneeIDs))
	copy(copied.AssigneeIDs, t.AssigneeIDs)

	copied.Tags = make([]string, len(t.Tags))
	copy(copied.Tags, t.Tags)

	copied.Subtasks = make([]*Subtask, len(t.Subtasks))
	for i, st := range t.Subtasks {
		s := *st
		copied.Subtasks[i] = &s
	}

	copied.Comments = make([]*Comment, len(t.Comments))
	for i, cm := range t.Comments {
		c := *cm
		copied.Comments[i] = &c
	}

	return &copied
}
