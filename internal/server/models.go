package server

import "github.com/flowgrid/flowserve/internal/flow"

// RunRequest is the body of POST /flows/:id/run.
type RunRequest struct {
	InputValue string `json:"input_value" binding:"required"`
}

// RunResponse mirrors the flow.Result shape on the wire.
type RunResponse struct {
	Result    string `json:"result"`
	Success   bool   `json:"success"`
	Logs      string `json:"logs"`
	Type      string `json:"type"`
	Component string `json:"component"`
}

// StreamRequest is the body of POST /flows/:id/stream.
type StreamRequest struct {
	InputValue      string                            `json:"input_value" binding:"required"`
	InputType       string                            `json:"input_type"`
	OutputType      string                            `json:"output_type"`
	OutputComponent string                            `json:"output_component"`
	SessionID       string                            `json:"session_id"`
	Tweaks          map[string]map[string]interface{} `json:"tweaks"`
}

// Input converts the request into the execution input, applying the same
// defaults the single-shot endpoint uses.
func (r StreamRequest) Input() flow.Input {
	in := flow.Input{
		InputValue:      r.InputValue,
		InputType:       r.InputType,
		OutputType:      r.OutputType,
		OutputComponent: r.OutputComponent,
		SessionID:       r.SessionID,
		Tweaks:          r.Tweaks,
	}
	if in.InputType == "" {
		in.InputType = "chat"
	}
	if in.OutputType == "" {
		in.OutputType = "chat"
	}
	return in
}

// InfoResponse is the body of GET /flows/:id/info: catalog metadata enriched
// with structural analysis.
type InfoResponse struct {
	flow.Meta
	Components  int      `json:"components"`
	Connections int      `json:"connections"`
	InputTypes  []string `json:"input_types"`
	OutputTypes []string `json:"output_types"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	FlowCount int    `json:"flow_count"`
}
