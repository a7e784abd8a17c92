package streaming

import (
	"context"
	"testing"
	"time"
)

func TestEventChannelFIFO(t *testing.T) {
	ch := NewEventChannel(8)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := ch.Put(ctx, Event{ID: i, Payload: Payload{Kind: KindToken}}); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}

	for i := int64(1); i <= 5; i++ {
		ev, err := ch.Get(ctx)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ev.ID != i {
			t.Errorf("expected event %d, got %d", i, ev.ID)
		}
	}
}

func TestEventChannelGetCancellable(t *testing.T) {
	ch := NewEventChannel(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := ch.Get(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Get to return the cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not unwind after cancellation")
	}
}

func TestEventChannelPutCancellableWhenFull(t *testing.T) {
	// The buffer bounds memory; when it is full, a cancelled session must
	// still be able to unwind the producer.
	ch := NewEventChannel(1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := ch.Put(ctx, Event{ID: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- ch.Put(ctx, Event{ID: 2})
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Put to return the cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("Put did not unwind after cancellation")
	}
}

func TestAckChannelNeverBlocksAdapter(t *testing.T) {
	ch := NewAckChannel(2)

	// More acks than capacity: the oldest are evicted, never blocking.
	for i := int64(1); i <= 10; i++ {
		ch.Ack(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, err := ch.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if id != 9 {
		t.Errorf("expected oldest surviving ack 9, got %d", id)
	}
}

func TestAckChannelKeepsNewestWhenFull(t *testing.T) {
	// A full buffer must never swallow the newest acknowledgment: the final
	// event's ack arriving into a buffer of stale token acks still has to
	// reach the producer, or the sentinel is never released.
	ch := NewAckChannel(1)
	ch.Ack(1)
	ch.Ack(2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := ch.WaitFor(ctx, 2); err != nil {
		t.Fatalf("WaitFor(2) after a full-buffer ack: %v", err)
	}
}

func TestAckChannelWaitForDrainsStaleAcks(t *testing.T) {
	// The producer gates the sentinel on the completion event's flush, not on
	// whatever stale token acknowledgment happens to be buffered.
	ch := NewAckChannel(8)
	ch.Ack(1)
	ch.Ack(2)
	ch.Ack(5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := ch.WaitFor(ctx, 5); err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
}

func TestAckChannelWaitCancellable(t *testing.T) {
	ch := NewAckChannel(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- ch.WaitFor(ctx, 1)
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected WaitFor to return the cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not unwind after cancellation")
	}
}
