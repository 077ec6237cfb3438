package startup

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a boot run. All of them are
// fatal to the current run; nothing is retried internally.
var (
	// ErrNotCallable reports a registration whose target cannot be invoked.
	ErrNotCallable = errors.New("not callable")

	// ErrDuplicateTask reports a second registration under the same key.
	ErrDuplicateTask = errors.New("task already registered")

	// ErrMalformedBinding reports an input or output specification that does
	// not match the recognized forms.
	ErrMalformedBinding = errors.New("malformed binding")

	// ErrUnsatisfiable reports that the ready queue drained while one or more
	// tasks were still pending, meaning a cycle or a variable that nothing
	// ever writes.
	ErrUnsatisfiable = errors.New("unsatisfiable dependency")

	// ErrReused reports a Run call on an engine that has already run.
	ErrReused = errors.New("startup cannot be run again")
)

// TaskError wraps a failure raised by a task's callable, or a result-arity
// mismatch detected when interpreting its return values.
type TaskError struct {
	Key string
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.Key, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
