package inspect

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/instrument"
	"github.com/vango-dev/elemkit/widget"
)

// StepRecorder receives the outcome of every applied step.
// *instrument.Metrics implements it.
type StepRecorder interface {
	RecordStep(op string, err error)
}

// Runner opens sessions and runs scenarios. A Runner holds no per-scenario
// state and may be shared.
type Runner struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	recorder   StepRecorder
	callbacks  map[string]elem.Callback
	transition widget.TransitionOptions
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Steps are logged at Debug, failures at Warn.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer sets the tracer used for run and step spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithRecorder sets the step recorder.
func WithRecorder(rec StepRecorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithCallbacks adds named event handlers next to the built-in log, stop
// and prevent.
func WithCallbacks(cbs map[string]elem.Callback) Option {
	return func(r *Runner) {
		for k, v := range cbs {
			r.callbacks[k] = v
		}
	}
}

// WithTransitionOptions sets the defaults for transition widgets.
func WithTransitionOptions(o widget.TransitionOptions) Option {
	return func(r *Runner) {
		r.transition = o
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:    slog.Default(),
		callbacks: make(map[string]elem.Callback),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run opens a session for sc, applies every step and returns the final
// snapshot. It stops at the first failing step and returns the snapshot so
// far together with the error.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Snapshot, error) {
	ctx, span := instrument.StartSpan(ctx, r.tracer, "elemkit.run",
		attribute.String("elemkit.scenario", sc.Name),
		attribute.Int("elemkit.steps", len(sc.Steps)),
	)

	s, err := r.Open(ctx, sc)
	if err != nil {
		instrument.EndSpan(span, err)
		return nil, err
	}
	defer s.Close()

	var runErr error
	for _, st := range sc.Steps {
		if runErr = ctx.Err(); runErr != nil {
			break
		}
		if _, runErr = s.Apply(ctx, st); runErr != nil {
			break
		}
	}
	instrument.EndSpan(span, runErr)
	return s.Snapshot(), runErr
}

func (r *Runner) recordStep(op string, err error) {
	if r.recorder != nil {
		r.recorder.RecordStep(op, err)
	}
}
