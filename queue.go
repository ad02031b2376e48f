package pro

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/pro/internal"
)

type (
	Queue       = internal.Queue
	Queues      = internal.Queues
	Task        = internal.Task
	TaskFunc    = internal.TaskFunc
	ErrorPolicy = internal.ErrorPolicy
	Metrics     = internal.Metrics

	Option        = internal.Option
	QueueOption   = internal.QueueOption
	MetricsOption = internal.MetricsOption
)

const (
	DefaultStage = internal.DefaultStage

	PropagateErrors = internal.PropagateErrors
	ReportErrors    = internal.ReportErrors
)

// NewQueue creates a standalone queue.
func NewQueue(name string, opts ...QueueOption) *Queue {
	return internal.NewQueue(name, opts...)
}

// NewQueues creates a staged pipeline. Without names it has a single DefaultStage.
func NewQueues(names []string, opts ...QueueOption) *Queues {
	return internal.NewQueues(names, opts...)
}

// Scheduler returns the staged queues drained by the calling goroutine's
// flow runs. Tasks pushed from inside a run execute before Run returns.
func Scheduler() *Queues {
	return internal.GetRuntime().Queues()
}

// NewTask wraps fn in a task that PushOnce can de-duplicate.
func NewTask(fn func(args []any) error) Task {
	return internal.NewTask(fn)
}

// NewMetrics registers the scheduler collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	return internal.NewMetrics(opts...)
}

func WithHooks(before, after func(*Queue)) QueueOption {
	return internal.WithHooks(before, after)
}

func WithErrorPolicy(policy ErrorPolicy, handler func(*Queue, error)) QueueOption {
	return internal.WithErrorPolicy(policy, handler)
}

func WithMetrics(m *Metrics) QueueOption {
	return internal.WithMetrics(m)
}

func WithStages(names ...string) Option {
	return internal.WithStages(names...)
}

func WithQueue(opts ...QueueOption) Option {
	return internal.WithQueue(opts...)
}

func WithTracer(t trace.Tracer) Option {
	return internal.WithTracer(t)
}

var (
	WithNamespace = internal.WithNamespace
	WithRegistry  = internal.WithRegistry
)
