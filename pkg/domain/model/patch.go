package model

import "github.com/taskops/taskboard/pkg/domain/types"

// TaskPatch is a partial update of a task. Nil fields are left
// untouched; DueDate uses a pointer-to-string so an explicit empty
// string clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *types.TaskStatus
	Priority    *types.TaskPriority
	DueDate     *string
	AssigneeIDs []types.UserID
	Tags        []string
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.AssigneeIDs == nil && p.Tags == nil
}

// Apply mutates the task in place with the patch's non-nil fields
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.AssigneeIDs != nil {
		t.AssigneeIDs = append([]types.UserID{}, p.AssigneeIDs...)
	}
	if p.Tags != nil {
		t.Tags = append([]string{}, p.Tags...)
	}
}
