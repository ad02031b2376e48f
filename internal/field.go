package internal

import (
	"reflect"
	"weak"
)

// Field is a named storage slot on a host object.
type Field interface {
	Name() string
	Type() reflect.Type
	// Alive reports whether the host can still be reached.
	Alive() bool
	Load() (any, error)
	Store(v any) error
}

// structField is an exported field of a struct, reached through a weak
// pointer so that binding a cell does not keep the host alive.
type structField[H any] struct {
	host  weak.Pointer[H]
	name  string
	index []int
	typ   reflect.Type
}

// NewStructField binds the exported field name of *host.
func NewStructField[H any](host *H, name string) (Field, error) {
	if host == nil {
		return nil, &FieldError{Field: name, Err: ErrNilHost}
	}

	rt := reflect.TypeFor[H]()
	if rt.Kind() != reflect.Struct {
		return nil, &FieldError{Field: name, Err: ErrFieldNotFound}
	}

	sf, ok := rt.FieldByName(name)
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrFieldNotFound}
	}
	if !sf.IsExported() {
		return nil, &FieldError{Field: name, Err: ErrFieldNotSettable}
	}

	f := &structField[H]{
		host:  weak.Make(host),
		name:  name,
		index: sf.Index,
		typ:   sf.Type,
	}

	// promoted fields behind a nil embedded pointer are not reachable
	if _, err := f.value(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *structField[H]) Name() string { return f.name }

func (f *structField[H]) Type() reflect.Type { return f.typ }

func (f *structField[H]) Alive() bool { return f.host.Value() != nil }

func (f *structField[H]) value() (reflect.Value, error) {
	host := f.host.Value()
	if host == nil {
		return reflect.Value{}, &FieldError{Field: f.name, Err: ErrHostCollected}
	}

	v, err := reflect.ValueOf(host).Elem().FieldByIndexErr(f.index)
	if err != nil || !v.CanSet() {
		return reflect.Value{}, &FieldError{Field: f.name, Err: ErrFieldNotSettable}
	}

	return v, nil
}

func (f *structField[H]) Load() (any, error) {
	v, err := f.value()
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (f *structField[H]) Store(x any) error {
	v, err := f.value()
	if err != nil {
		return err
	}

	if x == nil {
		v.SetZero()
		return nil
	}

	rv := reflect.ValueOf(x)
	if !rv.Type().AssignableTo(f.typ) {
		return &FieldError{Field: f.name, Err: ErrFieldType}
	}

	v.Set(rv)
	return nil
}

// accepts reports whether values of type t can be stored in the field.
func accepts(f Field, t reflect.Type) bool {
	return t.AssignableTo(f.Type())
}

func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.Comparable() || !vb.Comparable() {
		return false
	}

	return a == b
}
