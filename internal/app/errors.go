package app

import (
	"errors"
	"fmt"
)

// ErrClosed indicates the application was shut down.
var ErrClosed = errors.New("application closed")

// errLineTooLong marks a replayed line over the size limit.
var errLineTooLong = errors.New("line exceeds size limit")

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
