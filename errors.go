package pro

import "github.com/AnatoleLucet/pro/internal"

var (
	ErrNotInFlow        = internal.ErrNotInFlow
	ErrReentrantDrain   = internal.ErrReentrantDrain
	ErrConfigureInFlow  = internal.ErrConfigureInFlow
	ErrIndexOutOfRange  = internal.ErrIndexOutOfRange
	ErrEmptyReduce      = internal.ErrEmptyReduce
	ErrNilHost          = internal.ErrNilHost
	ErrHostCollected    = internal.ErrHostCollected
	ErrFieldNotFound    = internal.ErrFieldNotFound
	ErrFieldNotSettable = internal.ErrFieldNotSettable
	ErrFieldType        = internal.ErrFieldType
)

type (
	TaskError  = internal.TaskError
	PanicError = internal.PanicError
	FieldError = internal.FieldError
)
