package internal

import (
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultStage is the stage used when no stage names are configured.
const DefaultStage = "proq"

// runtimes on every goroutine read it, so it is swapped atomically
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger overrides the package logger. A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// ErrorPolicy decides what a queue does with a failing task.
type ErrorPolicy int

const (
	// PropagateErrors aborts the drain and returns the failure.
	PropagateErrors ErrorPolicy = iota
	// ReportErrors hands the failure to the error handler and keeps draining.
	ReportErrors
)

func (p ErrorPolicy) String() string {
	if p == ReportErrors {
		return "report"
	}
	return "propagate"
}

type QueueConfig struct {
	// Before and After bracket every non-empty drain pass.
	Before func(*Queue)
	After  func(*Queue)

	Policy  ErrorPolicy
	OnError func(*Queue, error)

	Metrics *Metrics
}

type QueueOption func(*QueueConfig)

// WithHooks sets the functions run before and after each drain pass.
func WithHooks(before, after func(*Queue)) QueueOption {
	return func(c *QueueConfig) {
		c.Before = before
		c.After = after
	}
}

// WithErrorPolicy selects how failing tasks are handled.
// The handler is only called under ReportErrors and may be nil.
func WithErrorPolicy(policy ErrorPolicy, handler func(*Queue, error)) QueueOption {
	return func(c *QueueConfig) {
		c.Policy = policy
		c.OnError = handler
	}
}

func WithMetrics(m *Metrics) QueueOption {
	return func(c *QueueConfig) {
		c.Metrics = m
	}
}

func applyQueueOptions(opts []QueueOption) QueueConfig {
	var config QueueConfig
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Config holds the settings of a runtime.
type Config struct {
	Stages []string
	Queue  []QueueOption
	Tracer trace.Tracer
}

type Option func(*Config)

// WithStages sets the ordered stage names of the flow scheduler.
func WithStages(names ...string) Option {
	return func(c *Config) {
		c.Stages = names
	}
}

// WithQueue applies queue options to every stage.
func WithQueue(opts ...QueueOption) Option {
	return func(c *Config) {
		c.Queue = append(c.Queue, opts...)
	}
}

// WithTracer sets the tracer used to record flow runs.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

func defaultConfig() Config {
	return Config{
		Stages: []string{DefaultStage},
		Tracer: noop.NewTracerProvider().Tracer("pro"),
	}
}
