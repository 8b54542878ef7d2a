package storage

import (
	"errors"
	"fmt"
)

// ErrDirNotConfigured is returned by searches when no XML directory is set
var ErrDirNotConfigured = errors.New("storage: xml directory not configured")

// IOError reports a failed filesystem operation on the output sink
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new IO error
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}
