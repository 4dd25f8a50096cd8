package app

import (
	"errors"
	"fmt"

	"github.com/example/queuebot/internal/core/queue"
)

// ErrStorageUnavailable marks failures of the persistence layer. The
// operation that hit it had no effect; the process keeps running.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError wraps a persistence failure with the action that triggered it.
type StorageError struct {
	Action queue.Action
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Action, ErrStorageUnavailable, e.Err)
}

// Unwrap returns the underlying persistence error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorageUnavailable.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}
