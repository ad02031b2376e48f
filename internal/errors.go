package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInFlow is returned when a cell schedules its listeners outside of a running flow.
	ErrNotInFlow = errors.New("pro: not in running flow")

	// ErrReentrantDrain is returned when Go is called on a queue that is already draining.
	ErrReentrantDrain = errors.New("pro: queue is already draining")

	ErrConfigureInFlow = errors.New("pro: cannot configure while a flow is running")

	ErrIndexOutOfRange = errors.New("pro: index out of range")
	ErrEmptyReduce     = errors.New("pro: reduce of empty array with no initial value")

	ErrNilHost          = errors.New("pro: nil host")
	ErrHostCollected    = errors.New("pro: host has been garbage collected")
	ErrFieldNotFound    = errors.New("pro: field not found")
	ErrFieldNotSettable = errors.New("pro: field is not settable")
	ErrFieldType        = errors.New("pro: value type does not match field")
)

// TaskError wraps a failure raised by a queued task.
type TaskError struct {
	Queue string
	Wave  int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("pro: task failed in queue %q (wave %d): %v", e.Queue, e.Wave, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a panicking task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pro: task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// FieldError reports a failure to bind or access a host field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("pro: field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
