// Package view computes derived projections of a task collection:
// filtering, ordering, status grouping and day-based statistics. All
// functions are pure; they never mutate their input.
package view

import (
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Filter selects tasks across independent dimensions. An empty
// dimension passes everything; within a dimension any selected value
// matches (OR), and a task must match every non-empty dimension (AND).
type Filter struct {
	Statuses    []types.TaskStatus
	Priorities  []types.TaskPriority
	AssigneeIDs []types.UserID
	Tags        []string

	// MineOnly keeps only tasks where Viewer is the creator or an
	// assignee. Viewer is ignored when MineOnly is false.
	MineOnly bool
	Viewer   types.UserID
}

// Match reports whether the task passes every non-empty filter dimension
func (f Filter) Match(t *model.Task) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
		return false
	}
	if len(f.AssigneeIDs) > 0 && !anyAssignee(t, f.AssigneeIDs) {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(t, f.Tags) {
		return false
	}
	if f.MineOnly && !t.IsMine(f.Viewer) {
		return false
	}
	return true
}

// Apply returns the tasks passing the filter, preserving input order
func (f Filter) Apply(tasks []*model.Task) []*model.Task {
	result := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

func containsStatus(set []types.TaskStatus, s types.TaskStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(set []types.TaskPriority, p types.TaskPriority) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}

func anyAssignee(t *model.Task, ids []types.UserID) bool {
	for _, id := range ids {
		if t.HasAssignee(id) {
			return true
		}
	}
	return false
}

func anyTag(t *model.Task, tags []string) bool {
	for _, tag := range tags {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}
