package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repository implementations when a
// requested record does not exist. Backends wrap it with the table
// and ID of the miss.
var ErrNotFound = goerr.New("not found")
