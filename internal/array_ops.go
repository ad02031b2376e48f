package internal

import (
	"fmt"
	"slices"
	"strings"
)

// The read operations below depend on every element and on the count,
// so each of them registers both an index and a length dependency.

// Concat returns a new array holding the elements followed by items.
func (a *Array[T]) Concat(items ...T) *Array[T] {
	a.addCallers()
	return NewArray(slices.Concat(a.items, items))
}

func (a *Array[T]) Every(fn func(el T, i int, items []T) bool) bool {
	a.addCallers()

	for i, el := range a.items {
		if !fn(el, i, a.items) {
			return false
		}
	}
	return true
}

func (a *Array[T]) Some(fn func(el T, i int, items []T) bool) bool {
	a.addCallers()

	for i, el := range a.items {
		if fn(el, i, a.items) {
			return true
		}
	}
	return false
}

func (a *Array[T]) Filter(fn func(el T, i int, items []T) bool) *Array[T] {
	a.addCallers()

	filtered := make([]T, 0)
	for i, el := range a.items {
		if fn(el, i, a.items) {
			filtered = append(filtered, el)
		}
	}
	return NewArray(filtered)
}

func (a *Array[T]) ForEach(fn func(el T, i int, items []T)) {
	a.addCallers()

	for i, el := range a.items {
		fn(el, i, a.items)
	}
}

func (a *Array[T]) Map(fn func(el T, i int, items []T) T) *Array[T] {
	return MapArray(a, fn)
}

// MapArray maps a into a new array of another element type.
func MapArray[T, U any](a *Array[T], fn func(el T, i int, items []T) U) *Array[U] {
	a.addCallers()

	mapped := make([]U, len(a.items))
	for i, el := range a.items {
		mapped[i] = fn(el, i, a.items)
	}
	return NewArray(mapped)
}

// Reduce folds the elements from the left. Without an initial value the
// first element seeds the accumulator and an empty array is an error.
func (a *Array[T]) Reduce(fn func(acc, el T, i int, items []T) T, initial ...T) (T, error) {
	a.addCallers()

	var acc T
	start := 0

	switch {
	case len(initial) > 0:
		acc = initial[0]
	case len(a.items) == 0:
		return acc, ErrEmptyReduce
	default:
		acc = a.items[0]
		start = 1
	}

	for i := start; i < len(a.items); i++ {
		acc = fn(acc, a.items[i], i, a.items)
	}
	return acc, nil
}

// ReduceRight folds the elements from the right.
func (a *Array[T]) ReduceRight(fn func(acc, el T, i int, items []T) T, initial ...T) (T, error) {
	a.addCallers()

	var acc T
	start := len(a.items) - 1

	switch {
	case len(initial) > 0:
		acc = initial[0]
	case len(a.items) == 0:
		return acc, ErrEmptyReduce
	default:
		acc = a.items[start]
		start--
	}

	for i := start; i >= 0; i-- {
		acc = fn(acc, a.items[i], i, a.items)
	}
	return acc, nil
}

// ReduceArray folds a into an accumulator of another type.
func ReduceArray[T, A any](a *Array[T], fn func(acc A, el T, i int, items []T) A, initial A) A {
	a.addCallers()

	acc := initial
	for i, el := range a.items {
		acc = fn(acc, el, i, a.items)
	}
	return acc
}

// IndexOf returns the first index of v at or after from, or -1.
func (a *Array[T]) IndexOf(v T, from ...int) int {
	a.addCallers()

	n := len(a.items)
	start := 0
	if len(from) > 0 {
		start = relativeIndex(from[0], n)
	}

	for i := start; i < n; i++ {
		if isEqual(any(a.items[i]), any(v)) {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last index of v at or before from, or -1.
func (a *Array[T]) LastIndexOf(v T, from ...int) int {
	a.addCallers()

	n := len(a.items)
	start := n - 1
	if len(from) > 0 {
		start = from[0]
		if start < 0 {
			start += n
		}
		start = min(start, n-1)
	}

	for i := start; i >= 0; i-- {
		if isEqual(any(a.items[i]), any(v)) {
			return i
		}
	}
	return -1
}

// Join concatenates the string forms of the elements, separated by sep
// (a comma by default).
func (a *Array[T]) Join(sep ...string) string {
	a.addCallers()

	s := ","
	if len(sep) > 0 {
		s = sep[0]
	}

	parts := make([]string, len(a.items))
	for i, el := range a.items {
		parts[i] = fmt.Sprint(el)
	}
	return strings.Join(parts, s)
}

func (a *Array[T]) String() string {
	return a.Join(",")
}

// Slice returns a new array with the elements in [start, end).
// Negative bounds count from the end; end defaults to the length.
func (a *Array[T]) Slice(start int, end ...int) *Array[T] {
	a.addCallers()

	n := len(a.items)
	from := relativeIndex(start, n)
	to := n
	if len(end) > 0 {
		to = relativeIndex(end[0], n)
	}

	if from >= to {
		return NewArray(make([]T, 0))
	}
	return NewArray(slices.Clone(a.items[from:to]))
}
