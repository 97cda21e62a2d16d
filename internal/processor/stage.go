package processor

import (
	"context"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
)

// State is the position of a run in the pipeline.
type State int

const (
	StateIdle State = iota
	StateFetchingMetadata
	StateDownloading
	StateTranscribing
	StateSummarizing
	StateSaving
	StatePublishing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingMetadata:
		return "fetching_metadata"
	case StateDownloading:
		return "downloading"
	case StateTranscribing:
		return "transcribing"
	case StateSummarizing:
		return "summarizing"
	case StateSaving:
		return "saving"
	case StatePublishing:
		return "publishing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// run carries the per-invocation state of one pipeline.
type run struct {
	state  State
	sink   progress.Sink
	logger logger.Logger
	// trace, when set, observes every state transition.
	trace func(State)
}

func (r *run) enter(ctx context.Context, s State) {
	r.logger.Debug(ctx, "State %s -> %s", r.state, s)
	r.state = s
	if r.trace != nil {
		r.trace(s)
	}
}

// fail moves the run to Failed and returns err unchanged.
func (r *run) fail(ctx context.Context, err error) error {
	r.logger.Error(ctx, "Pipeline failed in %s: %v", r.state, err)
	r.enter(ctx, StateFailed)
	return err
}

// stage describes one pipeline step: its progress messages and the kind
// given to errors the step did not classify itself.
type stage[T any] struct {
	id       progress.Stage
	state    State
	start    string
	startPct *float64
	// done builds the success message from the stage output.
	done     func(T) string
	fallback apperror.Kind
}

// runStage executes fn once with start and terminal progress events.
// Events passed to report are forwarded through a reporter that keeps the
// stage percentage non-decreasing.
func runStage[T any](ctx context.Context, r *run, s stage[T], fn func(report func(progress.Event)) (T, error)) (T, error) {
	r.enter(ctx, s.state)

	rep := &reporter{sink: r.sink, stage: s.id}
	rep.emit(progress.Event{Stage: s.id, Message: s.start, Percent: s.startPct})

	out, err := fn(rep.emit)
	if err != nil {
		var zero T
		return zero, apperror.Classify(err, s.fallback)
	}

	msg := ""
	if s.done != nil {
		msg = s.done(out)
	}
	rep.emit(progress.Event{Stage: s.id, Message: msg, Percent: progress.Pct(100)})
	r.logger.Info(ctx, "Stage %s completed", s.id)

	return out, nil
}

// reporter keeps the percentages of one stage non-decreasing. A lower
// percentage is raised to the last one seen; the event is still delivered.
type reporter struct {
	sink  progress.Sink
	stage progress.Stage
	last  float64
}

func (r *reporter) emit(ev progress.Event) {
	ev.Stage = r.stage
	if ev.Percent != nil {
		if *ev.Percent < r.last {
			ev.Percent = progress.Pct(r.last)
		}
		r.last = *ev.Percent
	}
	r.sink.Emit(ev)
}

func doneMessage[T any](msg string) func(T) string {
	return func(T) string { return msg }
}
