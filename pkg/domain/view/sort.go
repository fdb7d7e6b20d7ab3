package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taskops/taskboard/pkg/domain/model"
)

// SortKey selects the sort dimension of a board view
type SortKey string

const (
	SortByDueDate   SortKey = "due_date"
	SortByPriority  SortKey = "priority"
	SortByTitle     SortKey = "title"
	SortByCreatedAt SortKey = "created_at"
)

// IsValid checks if the sort key is valid
func (k SortKey) IsValid() bool {
	switch k {
	case SortByDueDate, SortByPriority, SortByTitle, SortByCreatedAt:
		return true
	default:
		return false
	}
}

// ParseSortKey parses a string into a SortKey
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(s)
	if !key.IsValid() {
		return "", fmt.Errorf("invalid sort key: %s", s)
	}
	return key, nil
}

// Sort describes the ordering of a board view
type Sort struct {
	Key  SortKey
	Desc bool
}

// maxDueDate stands in for missing and unparseable due dates so they
// sort last ascending and first descending. The comparator must stay
// total over arbitrary store data and never panic.
var maxDueDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func dueDateKey(t *model.Task) time.Time {
	if d, ok := t.DueDateTime(); ok {
		return d
	}
	return maxDueDate
}

// Apply returns a sorted copy of the tasks. The sort is stable: equal
// keys keep their input order, so repeated sorts of an unchanged
// collection produce an identical order.
func (s Sort) Apply(tasks []*model.Task) []*model.Task {
	sorted := make([]*model.Task, len(tasks))
	copy(sorted, tasks)

	var less func(a, b *model.Task) bool
	switch s.Key {
	case SortByPriority:
		less = func(a, b *model.Task) bool {
			return a.Priority.Weight() < b.Priority.Weight()
		}
	case SortByTitle:
		less = func(a, b *model.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByCreatedAt:
		// Unparseable timestamps decoded to the zero time sort oldest.
		less = func(a, b *model.Task) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default: // SortByDueDate
		less = func(a, b *model.Task) bool {
			return dueDateKey(a).Before(dueDateKey(b))
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if s.Desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// Apply filters and then sorts the collection
func Apply(tasks []*model.Task, filter Filter, s Sort) []*model.Task {
	return s.Apply(filter.Apply(tasks))
}
