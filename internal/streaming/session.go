package streaming

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/flowgrid/flowserve/internal/flow"
	"github.com/flowgrid/flowserve/internal/logger"
)

// Session is the per-request bundle of channels, input, and task handle for
// one streaming execution. A session lives exactly as long as its response
// body is being produced; it is never persisted, shared, or reused.
//
// Data flows one way (task → event channel → adapter → network) and
// acknowledgments flow the other (adapter → ack channel → task). The two
// halves share nothing else, so no locks are involved.
type Session struct {
	events  *EventChannel
	acks    *AckChannel
	task    *ExecutionTask
	adapter *StreamAdapter

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession builds the channel pair, execution task, and stream adapter for
// one streaming request against the given flow.
func NewSession(f *flow.Flow, input flow.Input, eventBuffer, ackBuffer int, log *logger.Logger) (*Session, error) {
	if f.Computation == nil {
		return nil, fmt.Errorf("flow %s has no prepared computation", f.Meta.ID)
	}

	events := NewEventChannel(eventBuffer)
	acks := NewAckChannel(ackBuffer)

	return &Session{
		events:  events,
		acks:    acks,
		task:    NewExecutionTask(f.Meta.ID, f.Computation, input, events, acks, log),
		adapter: NewStreamAdapter(events, acks, log),
	}, nil
}

// Start launches the execution task as a background unit of work. The task's
// context derives from ctx, so when the client connection goes away the task
// is cancelled with it, so an abandoned request never leaks work.
func (s *Session) Start(ctx context.Context) {
	taskCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	recordSessionOpened()

	go func() {
		defer close(s.done)
		s.task.Run(taskCtx)
	}()
}

// Stream produces the response body. It returns nil after reading the
// terminal sentinel, or ctx's error on client disconnect.
func (s *Session) Stream(ctx context.Context, w io.Writer, flusher http.Flusher) error {
	return s.adapter.Stream(ctx, w, flusher)
}

// Close cancels the execution task and waits for it to unwind. Safe to call
// after either termination path; every resource the session owns is released
// once Close returns.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
	recordSessionClosed()
}
