package view

import (
	"time"

	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Stats summarizes a filtered task collection for the dashboard header
type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
	DueToday   int `json:"due_today"`
	Mine       int `json:"mine"`
}

// calendarDay truncates a time to its calendar date in loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Summarize computes per-status counts plus overdue / due-today / mine
// counts using calendar-day comparison in loc. A task is overdue when
// its due date is strictly before today and it is not done; due today
// when the due date equals today's date and it is not done. Done tasks
// are never overdue. Tasks without a parseable due date count as
// neither.
func Summarize(tasks []*model.Task, viewer types.UserID, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	today := calendarDay(now, loc)

	var s Stats
	for _, t := range tasks {
		s.Total++

		switch t.Status.Normalize() {
		case types.TaskStatusInProgress:
			s.InProgress++
		case types.TaskStatusDone:
			s.Done++
		default:
			s.Todo++
		}

		if t.IsMine(viewer) {
			s.Mine++
		}

		if t.Status.Normalize() == types.TaskStatusDone {
			continue
		}
		due, ok := t.DueDateTime()
		if !ok {
			continue
		}
		// Due dates carry no time component; compare as calendar days.
		dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)
		switch {
		case dueDay.Before(today):
			s.Overdue++
		case dueDay.Equal(today):
			s.DueToday++
		}
	}
	return s
}
