package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the queue metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pro").
	Namespace string

	// Registry is the registerer the collectors are added to.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics collects scheduler statistics per queue. A nil *Metrics records nothing.
type Metrics struct {
	drains        *prometheus.CounterVec
	waves         *prometheus.CounterVec
	tasks         *prometheus.CounterVec
	taskErrors    *prometheus.CounterVec
	wavesPerDrain *prometheus.HistogramVec
}

func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "pro",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		drains: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "queue",
			Name:      "drains_total",
			Help:      "Total number of drain passes",
		}, []string{"queue"}),

		waves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "queue",
			Name:      "waves_total",
			Help:      "Total number of priority waves executed",
		}, []string{"queue"}),

		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "queue",
			Name:      "tasks_total",
			Help:      "Total number of tasks executed",
		}, []string{"queue"}),

		taskErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "queue",
			Name:      "task_errors_total",
			Help:      "Total number of failed tasks by error policy",
		}, []string{"queue", "policy"}),

		wavesPerDrain: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "queue",
			Name:      "waves_per_drain",
			Help:      "Number of priority waves needed by one drain pass",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}, []string{"queue"}),
	}
}

func (m *Metrics) taskRun(queue string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(queue).Inc()
}

func (m *Metrics) taskFailed(queue string, policy ErrorPolicy) {
	if m == nil {
		return
	}
	m.taskErrors.WithLabelValues(queue, policy.String()).Inc()
}

func (m *Metrics) drained(queue string, waves int) {
	if m == nil {
		return
	}
	m.drains.WithLabelValues(queue).Inc()
	m.waves.WithLabelValues(queue).Add(float64(waves))
	m.wavesPerDrain.WithLabelValues(queue).Observe(float64(waves))
}
