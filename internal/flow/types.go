package flow

import (
	"context"
)

// Meta is the catalog entry returned by the /flows listing.
type Meta struct {
	// ID is the deterministic flow identifier (UUIDv5 over the relative path).
	ID string `json:"id"`

	// RelativePath is the path of the flow JSON relative to the flows folder.
	RelativePath string `json:"relative_path"`

	// Title is the human-readable title (filename stem if the file names none).
	Title string `json:"title"`

	// Description is the optional flow description.
	Description string `json:"description,omitempty"`
}

// Input carries the caller-supplied payload for one execution.
type Input struct {
	InputValue      string
	InputType       string
	OutputType      string
	OutputComponent string
	SessionID       string

	// Tweaks override node template fields for this run only,
	// keyed by node ID then field name.
	Tweaks map[string]map[string]interface{}
}

// Result is the structured outcome of one flow execution. Failures inside the
// computation are reported through Success=false and a populated Result/Logs,
// never as a transport error.
type Result struct {
	Result    string `json:"result"`
	Success   bool   `json:"success"`
	Logs      string `json:"logs"`
	Type      string `json:"type"`
	Component string `json:"component"`
}

// EmitToken is the narrow capability handed to a computation for streaming
// intermediate progress. Implementations only ever enqueue; they never reach
// back into the adapter or router.
type EmitToken func(chunk string)

// Computation is the opaque, prepared unit of work behind a flow. It may be
// invoked concurrently by many simultaneous sessions; concurrency safety of
// its internals is its own contract. emit may be nil for single-shot runs.
type Computation interface {
	Execute(ctx context.Context, in Input, emit EmitToken) (Result, error)
}

// Flow pairs catalog metadata with the parsed graph structure and the
// prepared computation. Flows are built once at startup and read-only
// afterwards.
type Flow struct {
	Meta        Meta
	Graph       *Graph
	Computation Computation
}
