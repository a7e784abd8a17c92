package streaming

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowgrid/flowserve/internal/logger"
)

// StreamAdapter bridges the event channel to the outgoing chunked response.
// It is the single consumer of a session's channel pair.
type StreamAdapter struct {
	events *EventChannel
	acks   *AckChannel
	log    *logger.Logger
}

// NewStreamAdapter creates the consumer half of a stream session.
func NewStreamAdapter(events *EventChannel, acks *AckChannel, log *logger.Logger) *StreamAdapter {
	return &StreamAdapter{
		events: events,
		acks:   acks,
		log:    log.WithComponent("stream-adapter"),
	}
}

// Stream drains the event channel onto w until it reads the terminal
// sentinel (graceful end, nil error) or ctx is cancelled (client disconnect).
// Each non-sentinel event becomes one wire chunk; after the chunk's bytes are
// handed to the transport the event is acknowledged so the producer can pace
// itself. Per-event residency (time spent in the channel) and handling (write
// duration) are recorded for observability.
func (a *StreamAdapter) Stream(ctx context.Context, w io.Writer, flusher http.Flusher) error {
	for {
		ev, err := a.events.Get(ctx)
		if err != nil {
			return err
		}

		if ev.Payload.Kind == KindSentinel {
			return nil
		}

		writeStart := time.Now()

		body, err := ev.Envelope()
		if err != nil {
			// Unserializable events cannot happen with the tagged payload
			// set; if one does, acknowledge and keep the stream healthy.
			a.log.Error("failed to serialize event",
				slog.Int64("event_id", ev.ID),
				slog.String("error", err.Error()))
			a.acks.Ack(ev.ID)
			continue
		}

		if _, err := fmt.Fprintf(w, "%s\n\n", body); err != nil {
			return err
		}
		flusher.Flush()

		writeEnd := time.Now()
		residency := writeStart.Sub(ev.EnqueuedAt)
		handling := writeEnd.Sub(writeStart)

		recordEventStreamed(ev.Payload.Kind, residency, handling)
		a.log.Debug("consumed event",
			slog.Int64("event_id", ev.ID),
			slog.String("event", ev.Payload.Kind.String()),
			slog.Duration("residency", residency),
			slog.Duration("handling", handling))

		a.acks.Ack(ev.ID)
	}
}

// WriteErrorStream degrades a session that could not even be constructed to a
// single well-formed error chunk, preserving the contract that a stream
// endpoint's body is always at least one valid envelope.
func WriteErrorStream(w io.Writer, flusher http.Flusher, message string) {
	ev := Event{
		ID:         1,
		Payload:    Payload{Kind: KindFailure, Error: message},
		EnqueuedAt: time.Now(),
	}
	if body, err := ev.Envelope(); err == nil {
		fmt.Fprintf(w, "%s\n\n", body)
		flusher.Flush()
	}
}
