package repository

import "errors"

// ErrNotFound is returned when a record does not exist on the backend
// that was asked for it.
var ErrNotFound = errors.New("record not found")
