package internal

import "slices"

// Queues is an ordered pipeline of named stages.
type Queues struct {
	names  []string
	stages map[string]*Queue
}

func NewQueues(names []string, opts ...QueueOption) *Queues {
	return newQueues(names, applyQueueOptions(opts))
}

func newQueues(names []string, config QueueConfig) *Queues {
	if len(names) == 0 {
		names = []string{DefaultStage}
	}

	qs := &Queues{
		names:  slices.Clone(names),
		stages: make(map[string]*Queue, len(names)),
	}
	for _, name := range qs.names {
		qs.stages[name] = newQueue(name, config)
	}

	return qs
}

// Names returns the stage names in drain order.
func (qs *Queues) Names() []string { return slices.Clone(qs.names) }

// Stage returns the named stage, or the first one for an empty name.
func (qs *Queues) Stage(name string) *Queue {
	if name == "" {
		return qs.stages[qs.names[0]]
	}
	return qs.stages[name]
}

func (qs *Queues) Push(stage string, target any, task Task, args ...any) {
	if q := qs.route(stage); q != nil {
		q.Push(target, task, args...)
	}
}

func (qs *Queues) PushOnce(stage string, target any, task Task, args ...any) {
	if q := qs.route(stage); q != nil {
		q.PushOnce(target, task, args...)
	}
}

func (qs *Queues) route(stage string) *Queue {
	q := qs.Stage(stage)
	if q == nil {
		logger().Debug("pro: dropping push to unknown stage", "stage", stage)
	}
	return q
}

func (qs *Queues) IsEmpty() bool {
	for _, q := range qs.stages {
		if !q.IsEmpty() {
			return false
		}
	}
	return true
}

func (qs *Queues) Reset() {
	for _, q := range qs.stages {
		q.Reset()
	}
}

// Go drains the stages in order starting at start (the first stage when
// empty or unknown). Each stage runs a single pass at a time; afterwards
// the driver resumes at the earliest non-empty stage up to the current one,
// so work pushed back into an earlier stage settles before a later stage
// runs again. Stages before start are drained too once they hold work,
// and Go returns only when every stage is empty.
func (qs *Queues) Go(start string) error {
	first := 0
	if start != "" {
		if i := slices.Index(qs.names, start); i != -1 {
			first = i
		}
	}

	for i := first; i < len(qs.names); {
		if err := qs.stages[qs.names[i]].Go(true); err != nil {
			return err
		}

		if j := qs.firstPending(i); j != -1 {
			i = j
			continue
		}
		i++
	}

	return nil
}

// firstPending returns the earliest non-empty stage at or before upTo, or -1.
func (qs *Queues) firstPending(upTo int) int {
	for i := 0; i <= upTo; i++ {
		if !qs.stages[qs.names[i]].IsEmpty() {
			return i
		}
	}
	return -1
}
