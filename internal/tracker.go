package internal

// Tracker holds the evaluation context: the listener currently
// (re)computing, which every tracked read registers as a dependency.
type Tracker struct {
	tracking bool

	caller *Listener

	// the event being delivered, used as the source of writes made by listeners
	event *Event
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

// RunWithCaller runs fn with caller as the evaluation context, restoring
// the previous context afterwards, including when fn panics.
func (t *Tracker) RunWithCaller(caller *Listener, fn func()) {
	prevCaller := t.caller
	prevTracking := t.tracking

	t.caller = caller
	t.tracking = true

	defer func() {
		t.caller = prevCaller
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Caller returns the listener reads should register, or nil.
func (t *Tracker) Caller() *Listener {
	if !t.tracking {
		return nil
	}
	return t.caller
}

// RunWithEvent runs fn while event is being delivered.
func (t *Tracker) RunWithEvent(event *Event, fn func()) {
	prev := t.event
	t.event = event
	defer func() { t.event = prev }()

	fn()
}

// Event returns the event currently being delivered, or nil.
func (t *Tracker) Event() *Event {
	return t.event
}
