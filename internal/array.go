package internal

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// Array is an observable sequence. Element replacement and reordering are
// delivered to index listeners, size changes to length listeners.
type Array[T any] struct {
	items []T

	// one accessor per element, kept in sync by every mutation
	accessors []*Element[T]

	index  listenerSet
	length listenerSet
}

// NewArray wraps items without copying them.
func NewArray[T any](items []T) *Array[T] {
	if items == nil {
		items = make([]T, 0)
	}

	a := &Array[T]{items: items}
	a.syncAccessors()

	return a
}

// Element is the accessor of one array index.
type Element[T any] struct {
	array *Array[T]
	index int
}

func (e *Element[T]) Index() int { return e.index }

func (e *Element[T]) Get() T { return e.array.At(e.index) }

func (e *Element[T]) Set(v T) { e.array.SetAt(e.index, v) }

func (a *Array[T]) syncAccessors() {
	for i := len(a.accessors); i < len(a.items); i++ {
		a.accessors = append(a.accessors, &Element[T]{array: a, index: i})
	}

	clear(a.accessors[len(a.items):])
	a.accessors = a.accessors[:len(a.items)]
}

// State is always StateReady: wrapping a slice cannot fail.
func (a *Array[T]) State() State { return StateReady }

// Index returns the accessor of element i.
func (a *Array[T]) Index(i int) *Element[T] {
	return a.accessors[i]
}

// Accessors returns the number of live element accessors.
func (a *Array[T]) Accessors() int { return len(a.accessors) }

func (a *Array[T]) AddIndexListener(l *Listener) { a.index.add(l) }

func (a *Array[T]) AddLengthListener(l *Listener) { a.length.add(l) }

func (a *Array[T]) IndexListeners() []*Listener { return a.index.listeners }

func (a *Array[T]) LengthListeners() []*Listener { return a.length.listeners }

func (a *Array[T]) addIndexCaller() {
	a.index.track(GetRuntime().Caller())
}

func (a *Array[T]) addLengthCaller() {
	a.length.track(GetRuntime().Caller())
}

func (a *Array[T]) addCallers() {
	a.addIndexCaller()
	a.addLengthCaller()
}

// At returns element i and registers an index dependency.
func (a *Array[T]) At(i int) T {
	a.addIndexCaller()
	return a.items[i]
}

// SetAt replaces element i. Writing the current value is a no-op.
func (a *Array[T]) SetAt(i int, v T) {
	if i < 0 || i >= len(a.items) {
		panic(fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(a.items)))
	}

	if isEqual(any(a.items[i]), any(v)) {
		return
	}

	oldVal := a.items[i]
	a.items[i] = v

	a.update(OpSet, i, oldVal, v)
}

// Len returns the element count and registers a length dependency.
func (a *Array[T]) Len() int {
	a.addLengthCaller()
	return len(a.items)
}

// SetLength truncates or zero-extends the array.
func (a *Array[T]) SetLength(n int) {
	if n < 0 {
		panic(fmt.Errorf("%w: length %d", ErrIndexOutOfRange, n))
	}

	oldLength := len(a.items)
	if n == oldLength {
		return
	}

	if n < oldLength {
		clear(a.items[n:])
		a.items = a.items[:n]
	} else {
		a.items = append(a.items, make([]T, n-oldLength)...)
	}
	a.syncAccessors()

	a.update(OpSetLength, -1, oldLength, n)
}

func (a *Array[T]) Push(items ...T) int {
	if len(items) == 0 {
		return len(a.items)
	}

	a.items = append(a.items, items...)
	a.syncAccessors()

	a.update(OpAdd, len(a.items)-1, nil, slices.Clone(items))

	return len(a.items)
}

func (a *Array[T]) Pop() (T, bool) {
	var zero T
	if len(a.items) == 0 {
		return zero, false
	}

	last := len(a.items) - 1
	popped := a.items[last]
	a.items[last] = zero
	a.items = a.items[:last]
	a.syncAccessors()

	a.update(OpRemove, len(a.items), popped, nil)

	return popped, true
}

func (a *Array[T]) Shift() (T, bool) {
	var zero T
	if len(a.items) == 0 {
		return zero, false
	}

	shifted := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	a.syncAccessors()

	a.update(OpRemove, 0, shifted, nil)

	return shifted, true
}

func (a *Array[T]) Unshift(items ...T) int {
	if len(items) == 0 {
		return len(a.items)
	}

	a.items = slices.Insert(a.items, 0, items...)
	a.syncAccessors()

	a.update(OpAdd, 0, nil, slices.Clone(items))

	return len(a.items)
}

// Splice removes howMany elements at index and inserts items in their
// place. A negative index counts from the end. It returns the removed
// elements as a new array.
func (a *Array[T]) Splice(index, howMany int, items ...T) *Array[T] {
	n := len(a.items)
	start := relativeIndex(index, n)
	howMany = min(max(howMany, 0), n-start)

	removed := slices.Clone(a.items[start : start+howMany])
	inserted := slices.Clone(items)

	a.items = slices.Replace(a.items, start, start+howMany, inserted...)
	a.syncAccessors()

	a.updateSplice(start, removed, inserted)

	return NewArray(removed)
}

// Reverse reverses the array in place. Listeners get no payload and have
// to re-read the elements.
func (a *Array[T]) Reverse() {
	if len(a.items) == 0 {
		return
	}

	slices.Reverse(a.items)
	a.update(OpReverse, -1, nil, nil)
}

// Sort sorts the array in place with a stable sort. A nil compare orders
// elements by their string form.
func (a *Array[T]) Sort(compare func(a, b T) int) {
	if len(a.items) == 0 {
		return
	}

	if compare == nil {
		compare = func(x, y T) int {
			return cmp.Compare(fmt.Sprint(x), fmt.Sprint(y))
		}
	}

	slices.SortStableFunc(a.items, compare)
	a.update(OpSort, -1, nil, nil)
}

// ToArray returns the live underlying slice.
func (a *Array[T]) ToArray() []T { return a.items }

func (a *Array[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.items)
}

func (a *Array[T]) ToJSON() (string, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *Array[T]) update(op Op, ind int, oldVal, newVal any) {
	listeners := a.length.listeners
	if op.IsIndexOp() {
		listeners = a.index.listeners
	}

	a.fire(listeners, op, ind, oldVal, newVal)
}

func (a *Array[T]) updateSplice(index int, removed, inserted []T) {
	var listeners []*Listener

	switch {
	case len(removed) == 0 && len(inserted) == 0:
		return
	case len(removed) == len(inserted):
		listeners = a.index.listeners
	case len(removed) == 0 || len(inserted) == 0:
		listeners = a.length.listeners
	default:
		listeners = slices.Concat(a.length.listeners, a.index.listeners)
	}

	a.fire(listeners, OpSplice, index, removed, inserted)
}

func (a *Array[T]) fire(listeners []*Listener, op Op, ind int, oldVal, newVal any) {
	r := GetRuntime()
	r.mustRun(func() error {
		return r.notify(listeners, &Event{
			Source: r.tracker.Event(),
			Target: a,
			Type:   EventArray,
			Args:   []any{op, ind, oldVal, newVal},
		})
	})
}

// relativeIndex resolves a possibly negative index against length n, clamped to [0, n].
func relativeIndex(i, n int) int {
	if i < 0 {
		return max(n+i, 0)
	}
	return min(i, n)
}
