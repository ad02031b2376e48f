package internal

// Runtime is the reactive state of one goroutine: its evaluation
// context, its flow and the staged scheduler the flow drains.
type Runtime struct {
	config Config

	tracker *Tracker
	flow    *Flow
	queues  *Queues
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		tracker: NewTracker(),
		flow:    NewFlow(),
	}
	r.apply(opts)

	return r
}

func (r *Runtime) apply(opts []Option) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	r.config = config
	r.queues = newQueues(config.Stages, applyQueueOptions(config.Queue))
}

// Configure replaces the runtime settings and rebuilds the scheduler.
// It is refused while a flow is running.
func (r *Runtime) Configure(opts ...Option) error {
	if r.flow.Running() {
		return ErrConfigureInFlow
	}

	r.apply(opts)
	return nil
}

func (r *Runtime) Queues() *Queues { return r.queues }

func (r *Runtime) Caller() *Listener { return r.tracker.Caller() }

func (r *Runtime) RunWithCaller(caller *Listener, fn func()) {
	r.tracker.RunWithCaller(caller, fn)
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}
