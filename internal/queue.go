package internal

import (
	"reflect"
	"runtime/debug"
)

// Task is anything a queue can invoke.
type Task interface {
	Run(args []any) error
}

// TaskFunc adapts a function to Task. Func values are not comparable,
// so a TaskFunc is never de-duplicated by PushOnce; use NewTask for that.
type TaskFunc func(args []any) error

func (f TaskFunc) Run(args []any) error { return f(args) }

type funcTask struct {
	fn func(args []any) error
}

func (t *funcTask) Run(args []any) error { return t.fn(args) }

// NewTask wraps fn in a task with pointer identity.
func NewTask(fn func(args []any) error) Task {
	return &funcTask{fn}
}

type entry struct {
	target   any
	task     Task
	args     []any
	priority int
}

type entryKey struct {
	target any
	task   Task
}

// Queue is an ordered list of pending invocations drained in priority waves.
type Queue struct {
	name   string
	config QueueConfig

	entries []*entry

	// first entry for each (target, task) pair, for O(1) PushOnce
	index map[entryKey]*entry

	draining bool
	wave     int // the wave currently executing, 0 when idle
}

func NewQueue(name string, opts ...QueueOption) *Queue {
	return newQueue(name, applyQueueOptions(opts))
}

func newQueue(name string, config QueueConfig) *Queue {
	if name == "" {
		name = DefaultStage
	}

	return &Queue{
		name:    name,
		config:  config,
		entries: make([]*entry, 0),
		index:   make(map[entryKey]*entry),
	}
}

func (q *Queue) Name() string { return q.name }

func (q *Queue) Len() int { return len(q.entries) }

func (q *Queue) IsEmpty() bool { return len(q.entries) == 0 }

// Push appends an entry with priority 1. target may be nil.
func (q *Queue) Push(target any, task Task, args ...any) {
	e := &entry{target: target, task: task, args: args, priority: 1}
	q.entries = append(q.entries, e)

	if key, ok := keyOf(target, task); ok {
		if _, exists := q.index[key]; !exists {
			q.index[key] = e
		}
	}
}

// PushOnce replaces the arguments of the pending (target, task) entry and
// raises its priority, or pushes a new entry if there is none.
// While draining, the bumped entry is moved past the current wave.
func (q *Queue) PushOnce(target any, task Task, args ...any) {
	key, ok := keyOf(target, task)
	if ok {
		if e, exists := q.index[key]; exists {
			e.args = args
			e.priority++
			if q.draining && e.priority <= q.wave {
				e.priority = q.wave + 1
			}
			return
		}
	}

	q.Push(target, task, args...)
}

// Priority returns the priority of the pending (target, task) entry.
// Entries with a non-comparable target or task cannot be looked up.
func (q *Queue) Priority(target any, task Task) (int, bool) {
	e := q.lookup(target, task)
	if e == nil {
		return 0, false
	}
	return e.priority, true
}

// Args returns the arguments of the pending (target, task) entry.
func (q *Queue) Args(target any, task Task) ([]any, bool) {
	e := q.lookup(target, task)
	if e == nil {
		return nil, false
	}
	return e.args, true
}

func (q *Queue) lookup(target any, task Task) *entry {
	key, ok := keyOf(target, task)
	if !ok {
		return nil
	}
	return q.index[key]
}

// Reset drops every pending entry.
func (q *Queue) Reset() {
	q.entries = q.entries[:0]
	clear(q.index)
}

// Go drains the queue. Each pass executes the entries present when it
// started, wave by wave in ascending priority; entries appended during a
// pass make up the next one. With once set, Go stops after a single pass
// and leaves the appended entries pending.
func (q *Queue) Go(once bool) error {
	if q.draining {
		return ErrReentrantDrain
	}

	for len(q.entries) > 0 {
		n := len(q.entries)

		if err := q.pass(n); err != nil {
			q.Reset()
			return err
		}

		q.dropHead(n)

		if once {
			break
		}
	}

	return nil
}

func (q *Queue) pass(n int) error {
	q.draining = true
	defer func() {
		q.draining = false
		q.wave = 0
	}()

	if q.config.Before != nil {
		q.config.Before(q)
	}

	waves := 0
	for q.wave = 1; ; q.wave++ {
		waves++

		for i := 0; i < n; i++ {
			e := q.entries[i]
			if e.priority != q.wave {
				continue
			}

			if err := q.run(e); err != nil {
				q.config.Metrics.taskFailed(q.name, q.config.Policy)

				if q.config.Policy != ReportErrors {
					q.config.Metrics.drained(q.name, waves)
					return err
				}
				q.report(err)
			}
		}

		if !q.pendingAfter(n, q.wave) {
			break
		}
	}

	q.config.Metrics.drained(q.name, waves)

	if q.config.After != nil {
		q.config.After(q)
	}

	return nil
}

// pendingAfter reports whether any of the first n entries waits for a later wave.
func (q *Queue) pendingAfter(n, wave int) bool {
	for _, e := range q.entries[:n] {
		if e.priority > wave {
			return true
		}
	}
	return false
}

func (q *Queue) run(e *entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		if err != nil {
			err = &TaskError{Queue: q.name, Wave: q.wave, Err: err}
		}
	}()

	q.config.Metrics.taskRun(q.name)
	return e.task.Run(e.args)
}

func (q *Queue) report(err error) {
	logger().Warn("pro: task failed", "queue", q.name, "wave", q.wave, "err", err)

	if q.config.OnError != nil {
		q.config.OnError(q, err)
	}
}

// dropHead removes the first n entries and rebuilds the index from the rest.
func (q *Queue) dropHead(n int) {
	rest := make([]*entry, len(q.entries)-n)
	copy(rest, q.entries[n:])
	q.entries = rest

	clear(q.index)
	for _, e := range q.entries {
		if key, ok := keyOf(e.target, e.task); ok {
			if _, exists := q.index[key]; !exists {
				q.index[key] = e
			}
		}
	}
}

func keyOf(target any, task Task) (entryKey, bool) {
	if !hashable(target) || !hashable(task) {
		return entryKey{}, false
	}
	return entryKey{target: target, task: task}, true
}

// hashable checks the dynamic value: a comparable struct type may still hold
// a slice in an interface field.
func hashable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}
