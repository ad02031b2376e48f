// Package pro turns fields and slices into observable cells.
//
// Reads made while a computed property evaluates are recorded as
// dependencies, and writes schedule the interested listeners on a
// de-duplicating, priority-wave scheduler that drains once per flow run.
package pro

import (
	"context"
	"log/slog"

	"github.com/AnatoleLucet/pro/internal"
)

type (
	Property[T any] = internal.Property[T]
	Array[T any]    = internal.Array[T]
	Element[T any]  = internal.Element[T]

	Event     = internal.Event
	EventType = internal.EventType
	Change    = internal.Change
	Op        = internal.Op

	Listener     = internal.Listener
	ListenerKind = internal.ListenerKind
	Notifier     = internal.Notifier

	State        = internal.State
	PropertyType = internal.PropertyType
)

const (
	EventValue = internal.EventValue
	EventArray = internal.EventArray

	OpSet       = internal.OpSet
	OpAdd       = internal.OpAdd
	OpRemove    = internal.OpRemove
	OpSetLength = internal.OpSetLength
	OpReverse   = internal.OpReverse
	OpSort      = internal.OpSort
	OpSplice    = internal.OpSplice

	ListenerNotify = internal.ListenerNotify
	ListenerChain  = internal.ListenerChain

	StateInit      = internal.StateInit
	StateReady     = internal.StateReady
	StateDestroyed = internal.StateDestroyed
	StateError     = internal.StateError

	TypeSimple = internal.TypeSimple
	TypeAuto   = internal.TypeAuto
)

// NewProperty makes the exported field of host observable.
// The field must hold values assignable from T.
//
//	obj := &struct{ A any }{A: "my val"}
//	a, err := pro.NewProperty[any](obj, "A")
func NewProperty[T any, H any](host *H, field string) (*Property[T], error) {
	f, err := internal.NewStructField(host, field)
	if err != nil {
		return nil, err
	}
	return internal.NewProperty[T](f, nil)
}

// NewComputedProperty binds field to the result of compute.
// Every property or array read by compute becomes a dependency: when one of
// them changes, compute re-runs and the property's own listeners are notified.
func NewComputedProperty[T any, H any](host *H, field string, compute func() T) (*Property[T], error) {
	f, err := internal.NewStructField(host, field)
	if err != nil {
		return nil, err
	}
	return internal.NewProperty(f, compute)
}

// NewArray creates an observable array over items. The slice is used as is,
// so NewArray(s...) shares the backing array of s.
func NewArray[T any](items ...T) *Array[T] {
	return internal.NewArray(items)
}

// MapTo maps a into a new, unlinked array of another element type.
func MapTo[T, U any](a *Array[T], fn func(el T, i int, items []T) U) *Array[U] {
	return internal.MapArray(a, fn)
}

// ReduceTo folds a into an accumulator of another type.
func ReduceTo[T, A any](a *Array[T], fn func(acc A, el T, i int, items []T) A, initial A) A {
	return internal.ReduceArray(a, fn, initial)
}

// NewListener creates a listener that only runs fn.
func NewListener(fn func(*Event)) *Listener {
	return internal.NewListener(fn)
}

// NewChain creates a listener that runs fn and then schedules the
// listeners of downstream within the same flow.
func NewChain(fn func(*Event), downstream Notifier) *Listener {
	return internal.NewChain(fn, downstream)
}

// Run opens a flow: every change made by fn is delivered once fn returns,
// and the scheduler is drained before Run returns. Runs nest; only the
// outermost one drains.
func Run(fn func() error) error {
	return internal.GetRuntime().Run(context.Background(), fn)
}

// RunContext is Run with a context used as the parent of the flow span.
func RunContext(ctx context.Context, fn func() error) error {
	return internal.GetRuntime().Run(ctx, fn)
}

// InFlow reports whether a flow is running on the calling goroutine.
func InFlow() bool {
	return internal.GetRuntime().InFlow()
}

// Untrack runs fn without registering any dependency.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// Configure replaces the settings of the calling goroutine's runtime.
func Configure(opts ...Option) error {
	return internal.GetRuntime().Configure(opts...)
}

// Release drops the calling goroutine's runtime.
func Release() {
	internal.ReleaseRuntime()
}

// SetLogger overrides the package logger. If not set, slog.Default() is used.
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}
