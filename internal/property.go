package internal

import (
	"errors"
	"reflect"
)

type State int

const (
	StateInit State = iota
	StateReady
	StateDestroyed
	StateError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

type PropertyType int

const (
	// TypeSimple stores the written value.
	TypeSimple PropertyType = iota
	// TypeAuto derives its value from a compute function.
	TypeAuto
)

func (t PropertyType) String() string {
	if t == TypeAuto {
		return "auto"
	}
	return "simple"
}

// Property is a scalar observable cell bound to a host field.
type Property[T any] struct {
	field Field
	state State
	typ   PropertyType

	val    T
	oldVal T

	compute func() T
	// the evaluation context of an auto property
	caller *Listener

	listenerSet
}

// NewProperty binds a property to field. With a non-nil compute the
// property is an auto property: compute runs now under its own evaluation
// context and its result overwrites the field.
func NewProperty[T any](field Field, compute func() T) (*Property[T], error) {
	p := &Property[T]{
		field:   field,
		state:   StateInit,
		compute: compute,
	}

	if err := p.init(); err != nil {
		p.state = StateError
		logger().Debug("pro: property construction failed", "field", field.Name(), "err", err)
		return nil, err
	}

	p.state = StateReady
	return p, nil
}

func (p *Property[T]) init() error {
	if !accepts(p.field, reflect.TypeFor[T]()) {
		return &FieldError{Field: p.field.Name(), Err: ErrFieldType}
	}

	if p.compute != nil {
		p.typ = TypeAuto
		p.caller = NewChain(p.recompute, p)
		return p.evaluate()
	}

	current, err := p.field.Load()
	if err != nil {
		return err
	}

	p.typ = TypeSimple
	if current != nil {
		v, ok := current.(T)
		if !ok {
			return &FieldError{Field: p.field.Name(), Err: ErrFieldType}
		}
		p.val = v
	}

	return nil
}

// evaluate runs compute under the property's own evaluation context.
func (p *Property[T]) evaluate() error {
	var v T
	GetRuntime().RunWithCaller(p.caller, func() {
		v = p.compute()
	})

	p.oldVal = p.val
	p.val = v

	return p.field.Store(v)
}

func (p *Property[T]) recompute(*Event) {
	if p.detached() {
		return
	}

	if err := p.evaluate(); err != nil {
		panic(err)
	}
}

func (p *Property[T]) Name() string { return p.field.Name() }

func (p *Property[T]) Type() PropertyType { return p.typ }

func (p *Property[T]) State() State { return p.state }

// detached reports whether reads and writes bypass the property. A property
// whose host was collected is destroyed on first use.
func (p *Property[T]) detached() bool {
	if p.state == StateDestroyed {
		return true
	}
	if p.state == StateReady && !p.field.Alive() {
		p.state = StateDestroyed
		p.clear()
		return true
	}
	return false
}

// Value returns the current value without tracking.
func (p *Property[T]) Value() T {
	if p.detached() {
		return p.load()
	}
	return p.val
}

// OldValue returns the value held before the last change.
func (p *Property[T]) OldValue() T { return p.oldVal }

func (p *Property[T]) Listeners() []*Listener { return p.listeners }

func (p *Property[T]) AddListener(l *Listener) {
	p.add(l)
}

// Get returns the value, registering the active evaluation context as a listener.
func (p *Property[T]) Get() T {
	if p.detached() {
		return p.load()
	}

	if caller := GetRuntime().Caller(); caller != p.caller {
		p.track(caller)
	}

	return p.val
}

// G is a shorthand for Get.
func (p *Property[T]) G() T { return p.Get() }

// Set stores v and notifies the listeners inside a flow run.
// Writing the current value is a no-op. A write made by a listener is
// caused by the event that listener is handling.
func (p *Property[T]) Set(v T) {
	if p.detached() {
		if err := p.field.Store(v); err != nil && !errors.Is(err, ErrHostCollected) {
			panic(err)
		}
		return
	}

	if isEqual(any(p.val), any(v)) {
		return
	}

	p.oldVal = p.val
	p.val = v
	if err := p.field.Store(v); err != nil {
		panic(err)
	}

	r := GetRuntime()
	r.mustRun(func() error {
		return p.WillUpdate(r.tracker.Event())
	})
}

// S is a shorthand for Set.
func (p *Property[T]) S(v T) { p.Set(v) }

// WillUpdate schedules every listener with a value event caused by source.
// It must be called from inside a flow run.
func (p *Property[T]) WillUpdate(source *Event) error {
	r := GetRuntime()
	if !r.InFlow() {
		return ErrNotInFlow
	}

	event := &Event{
		Source: source,
		Target: p,
		Type:   EventValue,
		Args:   []any{},
	}

	return r.notify(p.listeners, event)
}

// Destroy detaches the property. The field keeps the last value and later
// reads and writes go straight to it.
func (p *Property[T]) Destroy() {
	if p.state == StateDestroyed {
		return
	}

	p.state = StateDestroyed
	p.clear()

	if err := p.field.Store(p.val); err != nil {
		logger().Debug("pro: property destroyed without write-back", "field", p.field.Name(), "err", err)
	}
}

func (p *Property[T]) load() T {
	v, err := p.field.Load()
	if err != nil {
		return p.val
	}

	t, _ := v.(T)
	return t
}
