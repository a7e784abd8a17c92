package streaming

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowgrid/flowserve/internal/flow"
	"github.com/flowgrid/flowserve/internal/logger"
)

// ExecutionTask wraps the opaque computation for one stream session and
// translates its lifecycle into events:
//
//   - a token event per intermediate progress chunk
//   - exactly one completion event on success, or
//   - exactly one failure event on error (including recovered panics)
//   - always, on every code path, a final terminal sentinel
//
// The sentinel emission is deferred so that even a cancelled or failed
// acknowledgment wait cannot leave the stream adapter reading forever.
type ExecutionTask struct {
	flowID      string
	computation flow.Computation
	input       flow.Input
	events      *EventChannel
	acks        *AckChannel
	log         *logger.Logger

	nextID int64
}

// NewExecutionTask creates the producer half of a stream session.
func NewExecutionTask(flowID string, computation flow.Computation, input flow.Input, events *EventChannel, acks *AckChannel, log *logger.Logger) *ExecutionTask {
	return &ExecutionTask{
		flowID:      flowID,
		computation: computation,
		input:       input,
		events:      events,
		acks:        acks,
		log:         log.WithComponent("execution-task"),
	}
}

// Run drives the computation to completion or failure and emits its
// lifecycle onto the event channel. It is the only writer to the channel
// pair and must run in its own goroutine.
func (t *ExecutionTask) Run(ctx context.Context) {
	// The sentinel is the liveness invariant: emit it no matter how the run
	// below ends, including panics and cancelled acknowledgment waits.
	defer t.emitSentinel(ctx)

	result, err := t.invoke(ctx)

	if ctx.Err() != nil {
		// Cancelled by client disconnect: no events after cancellation.
		t.log.Debug("execution cancelled", slog.String("flow_id", t.flowID))
		return
	}

	var finalID int64
	var putErr error
	if err != nil {
		t.log.Error("flow execution failed",
			slog.String("flow_id", t.flowID),
			slog.String("error", err.Error()))
		finalID, putErr = t.put(ctx, Payload{Kind: KindFailure, Error: err.Error()})
	} else {
		finalID, putErr = t.put(ctx, Payload{Kind: KindCompletion, Result: result})
	}
	if putErr != nil {
		return
	}

	// Backpressure handshake: do not tear the session down until the adapter
	// confirms the final event's bytes were handed to the transport.
	if waitErr := t.acks.WaitFor(ctx, finalID); waitErr != nil {
		t.log.Debug("acknowledgment wait cancelled", slog.String("flow_id", t.flowID))
	}
}

// invoke runs the computation with the emit capability wired to the event
// channel. Panics are recovered into errors so a misbehaving computation
// becomes failure data rather than a crashed server.
func (t *ExecutionTask) invoke(ctx context.Context) (result flow.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flow execution panicked: %v", r)
		}
	}()

	emit := func(chunk string) {
		// A cancelled put means the session is going away; the computation
		// notices through its own ctx at the next suspension point.
		_, _ = t.put(ctx, Payload{Kind: KindToken, Chunk: chunk})
	}

	return t.computation.Execute(ctx, t.input, emit)
}

// put stamps the next session-scoped ID and enqueue timestamp, then appends
// the event. It returns the assigned ID.
func (t *ExecutionTask) put(ctx context.Context, p Payload) (int64, error) {
	t.nextID++
	err := t.events.Put(ctx, Event{
		ID:         t.nextID,
		Payload:    p,
		EnqueuedAt: time.Now(),
	})
	return t.nextID, err
}

// emitSentinel appends the terminal record. If the session was cancelled the
// send aborts instead of blocking; the adapter's own teardown makes the
// sentinel moot in that case.
func (t *ExecutionTask) emitSentinel(ctx context.Context) {
	if ctx.Err() != nil {
		// No event is emitted after cancellation; the adapter's own teardown
		// makes the sentinel moot.
		return
	}
	_, _ = t.put(ctx, Payload{Kind: KindSentinel})
}
