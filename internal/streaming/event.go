package streaming

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowgrid/flowserve/internal/flow"
)

// PayloadKind tags the variant carried by an event.
type PayloadKind int

const (
	// KindToken is an intermediate progress chunk produced mid-execution.
	KindToken PayloadKind = iota

	// KindCompletion carries the final structured result of a successful run.
	KindCompletion

	// KindFailure carries an execution error, delivered as stream data rather
	// than a transport error.
	KindFailure

	// KindSentinel is the reserved terminal record: no more events follow.
	// It carries no data and is never serialized to the wire.
	KindSentinel
)

// String returns the wire event name for the kind.
func (k PayloadKind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindCompletion:
		return "end"
	case KindFailure:
		return "error"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Payload is the tagged union carried by an event. Exactly the fields for
// the tagged Kind are meaningful; the rest are zero.
type Payload struct {
	Kind PayloadKind

	// Chunk is the token text (KindToken).
	Chunk string

	// Result is the final structured result (KindCompletion).
	Result flow.Result

	// Error is the human-readable failure message (KindFailure).
	Error string

	// Logs is optional diagnostic detail accompanying a failure (KindFailure).
	Logs string
}

// Event is one immutable record on the event channel.
//
// ID distinguishes events within one stream session (monotonic, not globally
// unique). EnqueuedAt is set when the producer places the record on the
// channel and is used only for telemetry; ordering is structural (FIFO).
type Event struct {
	ID         int64
	Payload    Payload
	EnqueuedAt time.Time
}

// Wire shapes of the shared event envelope. Token, completion, and failure
// payloads all use the same {"event": ..., "data": {...}} frame so clients
// never have to distinguish framing from payload semantics.
type (
	envelope struct {
		Event string      `json:"event"`
		Data  interface{} `json:"data"`
	}

	tokenData struct {
		Chunk string `json:"chunk"`
	}

	endData struct {
		Result flow.Result `json:"result"`
	}

	errorData struct {
		Error string `json:"error"`
		Logs  string `json:"logs,omitempty"`
	}
)

// Envelope serializes the event to its wire form. The sentinel has no wire
// form; asking for one is a programming error surfaced as an error so the
// switch stays exhaustive over payload kinds.
func (e Event) Envelope() ([]byte, error) {
	var data interface{}
	switch e.Payload.Kind {
	case KindToken:
		data = tokenData{Chunk: e.Payload.Chunk}
	case KindCompletion:
		data = endData{Result: e.Payload.Result}
	case KindFailure:
		data = errorData{Error: e.Payload.Error, Logs: e.Payload.Logs}
	case KindSentinel:
		return nil, fmt.Errorf("sentinel event has no wire form")
	default:
		return nil, fmt.Errorf("unknown payload kind %d", e.Payload.Kind)
	}

	return json.Marshal(envelope{Event: e.Payload.Kind.String(), Data: data})
}
