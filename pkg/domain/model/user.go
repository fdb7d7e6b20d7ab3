package model

import "github.com/taskops/taskboard/pkg/domain/types"

// User is a read-mostly reference entity used for display and filter
// matching. The board never mutates users; the roster is synced from
// workspace configuration.
type User struct {
	ID         types.UserID
	Name       string
	Email      string
	Department string
	Role       string
}
