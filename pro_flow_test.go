package pro

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingTracer struct {
	noop.Tracer
	spans []string
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.spans = append(t.spans, name)
	return t.Tracer.Start(ctx, name, opts...)
}

func TestRun(t *testing.T) {
	t.Run("delivers changes when the outermost run returns", func(t *testing.T) {
		log := []string{}
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { log = append(log, "a changed") }))

		assert.False(t, InFlow())

		err = Run(func() error {
			assert.True(t, InFlow())

			a.Set(1)
			err := Run(func() error {
				a.Set(2)
				return nil
			})
			log = append(log, "inner done")
			return err
		})

		require.NoError(t, err)
		assert.False(t, InFlow())
		assert.Equal(t, []string{"inner done", "a changed"}, log)
		assert.Equal(t, 2, obj.A)
	})

	t.Run("batched writes recompute once", func(t *testing.T) {
		host := &struct{ A, B, Sum int }{}
		keepAlive(t, host)
		a, err := NewProperty[int](host, "A")
		require.NoError(t, err)
		b, err := NewProperty[int](host, "B")
		require.NoError(t, err)

		calls := 0
		_, err = NewComputedProperty(host, "Sum", func() int {
			calls++
			return a.Get() + b.Get()
		})
		require.NoError(t, err)

		err = Run(func() error {
			a.Set(1)
			b.Set(2)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, host.Sum)
		assert.Equal(t, 2, calls)
	})

	t.Run("a failing body drops its changes", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { calls++ }))

		err = Run(func() error {
			a.Set("lost")
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, calls)
		assert.True(t, Scheduler().IsEmpty())

		a.Set("kept")
		assert.Equal(t, 1, calls)
	})

	t.Run("listener failures propagate", func(t *testing.T) {
		log := []string{}
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { panic("kaboom") }))
		a.AddListener(NewListener(func(*Event) { log = append(log, "second") }))

		err = Run(func() error {
			a.Set(1)
			return nil
		})

		var taskErr *TaskError
		require.ErrorAs(t, err, &taskErr)
		assert.Equal(t, DefaultStage, taskErr.Queue)

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value)

		assert.Empty(t, log)
		assert.True(t, Scheduler().IsEmpty())
	})

	t.Run("a write outside a run panics with the failure", func(t *testing.T) {
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { panic("kaboom") }))

		err = recoverError(func() { a.Set(1) })

		var taskErr *TaskError
		assert.ErrorAs(t, err, &taskErr)
		assert.False(t, InFlow())
	})

	t.Run("reported failures keep the flow going", func(t *testing.T) {
		defer Release()

		var reported []error
		log := []string{}
		require.NoError(t, Configure(WithQueue(WithErrorPolicy(ReportErrors, func(_ *Queue, err error) {
			reported = append(reported, err)
		}))))

		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { panic("kaboom") }))
		a.AddListener(NewListener(func(*Event) { log = append(log, "second") }))

		a.Set(1)

		require.Len(t, reported, 1)
		var panicErr *PanicError
		assert.ErrorAs(t, reported[0], &panicErr)
		assert.Equal(t, []string{"second"}, log)
	})

	t.Run("configure is refused inside a run", func(t *testing.T) {
		err := Run(func() error { return Configure() })
		assert.ErrorIs(t, err, ErrConfigureInFlow)
	})

	t.Run("untracked writes still notify", func(t *testing.T) {
		calls := 0
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)
		a.AddListener(NewListener(func(*Event) { calls++ }))

		Untrack(func() any {
			a.Set("x")
			return nil
		})

		assert.Equal(t, 1, calls)
	})
}

func TestStages(t *testing.T) {
	t.Run("scheduled tasks run after the listeners", func(t *testing.T) {
		defer Release()
		require.NoError(t, Configure(WithStages("compute", "effects")))

		log := []string{}
		obj := newObject()
		keepAlive(t, obj)
		a, err := NewProperty[any](obj, "A")
		require.NoError(t, err)

		effect := NewTask(func(args []any) error {
			log = append(log, "effect")
			return nil
		})
		a.AddListener(NewListener(func(*Event) {
			log = append(log, "listener")
			Scheduler().PushOnce("effects", nil, effect)
		}))

		err = Run(func() error {
			Scheduler().PushOnce("effects", nil, effect)
			a.Set(1)
			a.Set(2)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"compute", "effects"}, Scheduler().Names())
		assert.Equal(t, []string{"listener", "effect"}, log)
	})

	t.Run("unknown stages are dropped", func(t *testing.T) {
		called := false
		err := Run(func() error {
			Scheduler().Push("nope", nil, NewTask(func([]any) error {
				called = true
				return nil
			}))
			return nil
		})

		require.NoError(t, err)
		assert.False(t, called)
	})
}

func TestTracing(t *testing.T) {
	defer Release()

	tracer := &recordingTracer{}
	require.NoError(t, Configure(WithTracer(tracer)))

	obj, other := newObject(), newObject()
	keepAlive(t, obj, other)

	a, err := NewProperty[any](obj, "A")
	require.NoError(t, err)
	b, err := NewProperty[any](other, "B")
	require.NoError(t, err)
	a.AddListener(NewListener(func(e *Event) { b.Set(a.Value()) }))

	err = RunContext(context.Background(), func() error {
		return Run(func() error {
			a.Set(1)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pro.flow"}, tracer.spans)

	a.Set(2)
	assert.Equal(t, []string{"pro.flow", "pro.flow"}, tracer.spans)
}

func TestFlowMetrics(t *testing.T) {
	defer Release()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(reg))
	require.NoError(t, Configure(WithQueue(WithMetrics(metrics))))

	host := &struct{ A, B int }{}
	keepAlive(t, host)
	a, err := NewProperty[int](host, "A")
	require.NoError(t, err)
	_, err = NewComputedProperty(host, "B", func() int { return a.Get() * 2 })
	require.NoError(t, err)

	a.Set(1)
	a.Set(2)

	assert.Equal(t, 4, host.B)
	expected := `
# HELP pro_queue_tasks_total Total number of tasks executed
# TYPE pro_queue_tasks_total counter
pro_queue_tasks_total{queue="proq"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pro_queue_tasks_total"))
}
