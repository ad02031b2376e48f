package internal

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Flow struct {
	// each nested run increases the depth by 1
	// the drain happens when the outermost run completes
	depth int
}

func NewFlow() *Flow {
	return &Flow{}
}

func (f *Flow) Running() bool {
	return f.depth > 0
}

// Run opens a flow run: fn executes, then the scheduler is drained to a
// fixed point. A nested call only executes fn; whatever it schedules is
// drained by the enclosing run.
func (r *Runtime) Run(ctx context.Context, fn func() error) (err error) {
	if r.flow.Running() {
		return fn()
	}

	_, span := r.config.Tracer.Start(ctx, "pro.flow")
	defer span.End()

	r.flow.depth++
	defer func() {
		r.flow.depth--

		if rec := recover(); rec != nil {
			r.queues.Reset()
			panic(rec)
		}
	}()

	logger().Debug("pro: flow started")

	if err = fn(); err == nil {
		err = r.queues.Go("")
	}

	if err != nil {
		// later stages may still hold work scheduled by the failed run
		r.queues.Reset()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger().Debug("pro: flow failed", "err", err)
		return err
	}

	span.SetAttributes(attribute.Int("pro.stages", len(r.queues.names)))
	span.SetStatus(codes.Ok, "")
	logger().Debug("pro: flow settled")

	return nil
}

// mustRun runs fn in a flow and panics with the error if the flow fails.
// Writes use it, so a failing listener surfaces at the outermost writer;
// callers that want the error wrap their writes in Run.
func (r *Runtime) mustRun(fn func() error) {
	if err := r.Run(context.Background(), fn); err != nil {
		panic(err)
	}
}

func (r *Runtime) InFlow() bool {
	return r.flow.Running()
}
