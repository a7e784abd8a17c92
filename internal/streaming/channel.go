package streaming

import (
	"context"
)

// EventChannel is the ordered FIFO conduit of events between exactly one
// producer (the execution task) and one consumer (the stream adapter).
//
// The buffer exists only to bound memory, never to pace the producer;
// pacing is the acknowledgment channel's job. Put is cancellable so an
// abandoned session cannot wedge the producer against a full buffer.
// Dropping a channel with unread events simply garbage-collects them.
type EventChannel struct {
	ch chan Event
}

// NewEventChannel creates an event channel with the given buffer capacity.
func NewEventChannel(capacity int) *EventChannel {
	if capacity < 1 {
		capacity = 1
	}
	return &EventChannel{
		ch: make(chan Event, capacity),
	}
}

// Put appends an event to the tail. It blocks only when the memory-protection
// buffer is full, and unwinds if ctx is cancelled first.
func (c *EventChannel) Put(ctx context.Context, ev Event) error {
	select {
	case c.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get removes and returns the head, suspending the caller until an event is
// available or ctx is cancelled.
func (c *EventChannel) Get(ctx context.Context) (Event, error) {
	select {
	case ev := <-c.ch:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// AckChannel carries flush acknowledgments from the stream adapter back to
// the execution task. The adapter acknowledges every event right after its
// bytes are handed to the transport; the task waits for one acknowledgment
// before emitting the terminal sentinel, so the session is never torn down
// before the client has received the final payload.
type AckChannel struct {
	ch chan int64
}

// NewAckChannel creates an acknowledgment channel with the given buffer
// capacity.
func NewAckChannel(capacity int) *AckChannel {
	if capacity < 1 {
		capacity = 1
	}
	return &AckChannel{
		ch: make(chan int64, capacity),
	}
}

// Ack records that the event with the given ID has been flushed to the wire.
// It never blocks the adapter: when the buffer is full the oldest buffered
// acknowledgment is evicted to make room. IDs are monotone, so the newest
// acknowledgment subsumes every older one and must be the survivor; evicting
// the new one instead could strand the producer waiting on the final ID.
func (c *AckChannel) Ack(eventID int64) {
	for {
		select {
		case c.ch <- eventID:
			return
		default:
		}
		// Full: drop the oldest and retry. The producer may drain a slot
		// concurrently, in which case the retry just sends.
		select {
		case <-c.ch:
		default:
		}
	}
}

// Wait blocks until one acknowledgment arrives or ctx is cancelled. A
// disconnected consumer never acknowledges, so the wait must stay cancellable
// to keep the producer from being suspended forever.
func (c *AckChannel) Wait(ctx context.Context) (int64, error) {
	select {
	case id := <-c.ch:
		return id, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WaitFor blocks until the event with the given ID, or any later one, has
// been acknowledged. Acknowledgments arrive in flush order, so draining past
// stale token acknowledgments is enough to know the target event reached the
// transport.
func (c *AckChannel) WaitFor(ctx context.Context, eventID int64) error {
	for {
		id, err := c.Wait(ctx)
		if err != nil {
			return err
		}
		if id >= eventID {
			return nil
		}
	}
}
