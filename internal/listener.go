package internal

import "slices"

type ListenerKind int

const (
	// ListenerNotify only invokes its callback.
	ListenerNotify ListenerKind = iota
	// ListenerChain invokes its callback and re-triggers a downstream cell.
	ListenerChain
)

// Notifier is a cell that can schedule its own listeners.
type Notifier interface {
	WillUpdate(source *Event) error
}

// Listener is the unit registered on cells and scheduled on queues.
// Listeners are compared by pointer, so the same *Listener is never
// registered twice on the same channel.
type Listener struct {
	kind       ListenerKind
	fn         func(*Event)
	downstream Notifier
}

func NewListener(fn func(*Event)) *Listener {
	return &Listener{kind: ListenerNotify, fn: fn}
}

func NewChain(fn func(*Event), downstream Notifier) *Listener {
	return &Listener{kind: ListenerChain, fn: fn, downstream: downstream}
}

func (l *Listener) Kind() ListenerKind { return l.kind }

func (l *Listener) Downstream() Notifier { return l.downstream }

// Run implements Task. The first argument is the delivered event.
func (l *Listener) Run(args []any) error {
	if l.fn == nil {
		return nil
	}

	var event *Event
	if len(args) > 0 {
		event, _ = args[0].(*Event)
	}

	GetRuntime().tracker.RunWithEvent(event, func() {
		l.fn(event)
	})
	return nil
}

// listenerSet is an ordered listener list with caller de-duplication.
type listenerSet struct {
	listeners  []*Listener
	lastCaller *Listener
}

func (s *listenerSet) add(l *Listener) {
	s.listeners = append(s.listeners, l)
}

// track registers the active caller once.
func (s *listenerSet) track(caller *Listener) {
	if caller == nil || caller == s.lastCaller || slices.Contains(s.listeners, caller) {
		return
	}

	s.add(caller)
	s.lastCaller = caller
}

func (s *listenerSet) clear() {
	s.listeners = nil
	s.lastCaller = nil
}

// notify schedules every listener on the default stage, in insertion order.
// Chain listeners re-trigger their downstream cell right after being queued,
// so the downstream listeners land behind the chain callback.
func (r *Runtime) notify(listeners []*Listener, event *Event) error {
	for _, l := range slices.Clone(listeners) {
		r.queues.PushOnce("", nil, l, event)

		if l.kind == ListenerChain && l.downstream != nil {
			if err := l.downstream.WillUpdate(event); err != nil {
				return err
			}
		}
	}

	return nil
}
