package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the use case layer
var (
	ErrTitleRequired   = goerr.New("task title is required")
	ErrInvalidStatus   = goerr.New("invalid task status")
	ErrInvalidPriority = goerr.New("invalid task priority")
	ErrInvalidDueDate  = goerr.New("invalid due date")
	ErrInvalidFormat   = goerr.New("invalid export format")
)
