package internal

type EventType int

const (
	// EventValue is emitted by properties. Args is always empty.
	EventValue EventType = iota
	// EventArray is emitted by arrays. Args holds op, index, old value and new value.
	EventArray
)

func (t EventType) String() string {
	switch t {
	case EventValue:
		return "value"
	case EventArray:
		return "array"
	default:
		return "unknown"
	}
}

// Event is the change record delivered to listeners.
type Event struct {
	// Source is the event that caused this one, nil for a direct write.
	Source *Event
	// Target is the cell that changed.
	Target any
	Type   EventType
	Args   []any
}

// Change decodes the payload of an array event.
func (e *Event) Change() (Change, bool) {
	if e == nil || e.Type != EventArray || len(e.Args) != 4 {
		return Change{}, false
	}

	op, _ := e.Args[0].(Op)
	ind, _ := e.Args[1].(int)

	return Change{Op: op, Index: ind, OldVal: e.Args[2], NewVal: e.Args[3]}, true
}

// Root follows Source links back to the event that started the cascade.
func (e *Event) Root() *Event {
	for e != nil && e.Source != nil {
		e = e.Source
	}
	return e
}

// Op identifies the array operation behind an array event.
type Op int

const (
	OpSet Op = iota
	OpAdd
	OpRemove
	OpSetLength
	OpReverse
	OpSort
	OpSplice
)

var opNames = [...]string{"set", "add", "remove", "setLength", "reverse", "sort", "splice"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}
	return opNames[op]
}

// IsIndexOp reports whether the operation is delivered to index listeners.
func (op Op) IsIndexOp() bool {
	return op == OpSet || op == OpReverse || op == OpSort
}

// Change is the decoded payload of an array event.
type Change struct {
	Op     Op
	Index  int
	OldVal any
	NewVal any
}
