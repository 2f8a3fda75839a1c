// package repository provides data access and error types
package repository

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStorage matches any StorageError through errors.Is
var ErrStorage = errors.New("storage failure")

// StorageError is returned when the store fails to execute an operation
type StorageError struct {
	Op    string
	ID    int64
	Title string
	Err   error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	switch {
	case e.ID != 0:
		return fmt.Sprintf("%s todo %d: %v", e.Op, e.ID, e.Err)
	case e.Title != "":
		return fmt.Sprintf("%s todo %q: %v", e.Op, e.Title, e.Err)
	default:
		return fmt.Sprintf("%s todos: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying store error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// StackTrace returns the stack recorded when the fault was wrapped
func (e *StorageError) StackTrace() errors.StackTrace {
	var tracer interface{ StackTrace() errors.StackTrace }
	if errors.As(e.Err, &tracer) {
		return tracer.StackTrace()
	}
	return nil
}
