// Package graph provides the default computation implementation: a small
// topological interpreter over a parsed flow graph with a per-component
// handler registry. Each run gets its own RunContext, so a single Executor is
// safe for arbitrarily many concurrent sessions.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowgrid/flowserve/internal/flow"
)

// HandlerFunc transforms the text flowing through one node.
type HandlerFunc func(rc *RunContext, node *flow.Node, input string) (string, error)

// Executor walks a graph in topological order, passing each node's output as
// the next node's input. It implements flow.Computation.
type Executor struct {
	graph    *flow.Graph
	handlers map[string]HandlerFunc
}

// NewExecutor builds an executor for the graph with the default component
// registry.
func NewExecutor(g *flow.Graph) *Executor {
	return &Executor{
		graph:    g,
		handlers: defaultHandlers(),
	}
}

// RunContext carries per-run state: the request input, the emit capability,
// and the captured run log. One RunContext per Execute call, never shared.
type RunContext struct {
	input flow.Input
	emit  flow.EmitToken
	logs  strings.Builder
}

// Logf appends a line to the run log. The collected log backs the logs field
// of run responses and completion events.
func (rc *RunContext) Logf(format string, args ...interface{}) {
	fmt.Fprintf(&rc.logs, "[%s] ", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&rc.logs, format, args...)
	rc.logs.WriteByte('\n')
}

// Emit hands an intermediate chunk to the stream, if one is attached.
func (rc *RunContext) Emit(chunk string) {
	if rc.emit != nil {
		rc.emit(chunk)
	}
}

// Input returns the caller-supplied request payload.
func (rc *RunContext) Input() flow.Input {
	return rc.input
}

// FieldString resolves a node template field to a string, with request
// tweaks taking precedence over the stored template value.
func (rc *RunContext) FieldString(node *flow.Node, name string) string {
	if tweaks, ok := rc.input.Tweaks[node.ID]; ok {
		if v, ok := tweaks[name]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	if f, ok := node.Template[name]; ok {
		if s, ok := f.Value.(string); ok {
			return s
		}
	}
	return ""
}

// Execute runs the graph to completion. Component errors abort the run and
// surface as an error; callers translate that into failure data.
func (e *Executor) Execute(ctx context.Context, in flow.Input, emit flow.EmitToken) (flow.Result, error) {
	order, err := topoSort(e.graph)
	if err != nil {
		return flow.Result{}, err
	}

	rc := &RunContext{input: in, emit: emit}
	text := in.InputValue
	lastComponent := ""

	for _, node := range order {
		select {
		case <-ctx.Done():
			return flow.Result{}, ctx.Err()
		default:
		}

		handler := e.handlers[node.Type]
		if handler == nil {
			rc.Logf("component %s (%s): no handler, passing input through", node.DisplayName, node.Type)
			lastComponent = node.DisplayName
			continue
		}

		out, err := handler(rc, node, text)
		if err != nil {
			rc.Logf("component %s failed: %v", node.DisplayName, err)
			return flow.Result{}, fmt.Errorf("component %s: %w", node.DisplayName, err)
		}
		text = out
		lastComponent = node.DisplayName
	}

	return flow.Result{
		Result:    text,
		Success:   true,
		Logs:      rc.logs.String(),
		Type:      "message",
		Component: lastComponent,
	}, nil
}

// topoSort orders the graph's nodes so every edge points forward. Ordering
// among ready nodes follows the file's node order, keeping runs stable.
func topoSort(g *flow.Graph) ([]*flow.Node, error) {
	indegree := make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		indegree[g.Nodes[i].ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := indegree[e.Target]; ok {
			indegree[e.Target]++
		}
	}

	order := make([]*flow.Node, 0, len(g.Nodes))
	done := make(map[string]bool, len(g.Nodes))

	for len(order) < len(g.Nodes) {
		progressed := false
		for i := range g.Nodes {
			n := &g.Nodes[i]
			if done[n.ID] || indegree[n.ID] != 0 {
				continue
			}
			done[n.ID] = true
			order = append(order, n)
			for _, e := range g.Edges {
				if e.Source == n.ID {
					indegree[e.Target]--
				}
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("graph contains a cycle")
		}
	}

	return order, nil
}
