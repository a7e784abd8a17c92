package graph

import (
	"context"
	"testing"
	"time"

	"github.com/flowgrid/flowserve/internal/flow"
)

func echoGraph() *flow.Graph {
	return &flow.Graph{
		Name: "echo",
		Nodes: []flow.Node{
			{ID: "in", Type: "ChatInput", DisplayName: "Chat Input", Template: map[string]flow.Field{"input_value": {Type: "str", Value: ""}}},
			{ID: "out", Type: "ChatOutput", DisplayName: "Chat Output", Template: map[string]flow.Field{}},
		},
		Edges: []flow.Edge{{Source: "in", Target: "out"}},
	}
}

func TestExecuteEcho(t *testing.T) {
	exec := NewExecutor(echoGraph())

	var emitted []string
	result, err := exec.Execute(context.Background(), flow.Input{InputValue: "hi"}, func(chunk string) {
		emitted = append(emitted, chunk)
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Result != "hi" {
		t.Errorf("expected result %q, got %q", "hi", result.Result)
	}
	if !result.Success {
		t.Error("expected success=true")
	}
	if result.Component != "Chat Output" {
		t.Errorf("expected component Chat Output, got %q", result.Component)
	}
	if result.Logs == "" {
		t.Error("expected a captured run log")
	}
	if len(emitted) != 1 || emitted[0] != "hi" {
		t.Errorf("expected one emitted chunk %q, got %v", "hi", emitted)
	}
}

func TestExecutePromptSubstitution(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "in", Type: "TextInput", DisplayName: "Input", Template: map[string]flow.Field{"input_value": {Type: "str", Value: ""}}},
			{ID: "p", Type: "Prompt", DisplayName: "Prompt", Template: map[string]flow.Field{
				"template": {Type: "prompt", Value: "{greeting}, {input}!"},
				"greeting": {Type: "str", Value: "Hello"},
			}},
			{ID: "out", Type: "TextOutput", DisplayName: "Output", Template: map[string]flow.Field{}},
		},
		Edges: []flow.Edge{
			{Source: "in", Target: "p"},
			{Source: "p", Target: "out"},
		},
	}

	exec := NewExecutor(g)
	result, err := exec.Execute(context.Background(), flow.Input{InputValue: "world"}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Result != "Hello, world!" {
		t.Errorf("expected rendered prompt, got %q", result.Result)
	}
}

func TestExecuteTweaksOverrideTemplate(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "in", Type: "TextInput", DisplayName: "Input", Template: map[string]flow.Field{"input_value": {Type: "str", Value: ""}}},
			{ID: "p", Type: "Prompt", DisplayName: "Prompt", Template: map[string]flow.Field{
				"template": {Type: "prompt", Value: "{greeting}, {input}!"},
				"greeting": {Type: "str", Value: "Hello"},
			}},
		},
		Edges: []flow.Edge{{Source: "in", Target: "p"}},
	}

	in := flow.Input{
		InputValue: "world",
		Tweaks: map[string]map[string]interface{}{
			"p": {"greeting": "Howdy"},
		},
	}

	exec := NewExecutor(g)
	result, err := exec.Execute(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Result != "Howdy, world!" {
		t.Errorf("expected tweaked prompt, got %q", result.Result)
	}
}

func TestExecuteUnknownComponentPassesThrough(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "in", Type: "ChatInput", DisplayName: "Input", Template: map[string]flow.Field{"input_value": {Type: "str", Value: ""}}},
			{ID: "x", Type: "SomeFutureComponent", DisplayName: "Mystery"},
		},
		Edges: []flow.Edge{{Source: "in", Target: "x"}},
	}

	exec := NewExecutor(g)
	result, err := exec.Execute(context.Background(), flow.Input{InputValue: "hi"}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Result != "hi" {
		t.Errorf("expected passthrough, got %q", result.Result)
	}
	if result.Component != "Mystery" {
		t.Errorf("expected last component Mystery, got %q", result.Component)
	}
}

func TestExecuteCycleFails(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "a", Type: "Prompt"},
			{ID: "b", Type: "Prompt"},
		},
		Edges: []flow.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	}

	exec := NewExecutor(g)
	if _, err := exec.Execute(context.Background(), flow.Input{}, nil); err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestExecuteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := NewExecutor(echoGraph())
	done := make(chan error, 1)
	go func() {
		_, err := exec.Execute(ctx, flow.Input{InputValue: "hi"}, nil)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected a cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("Execute did not return after cancellation")
	}
}

func TestExecuteFallsBackToTemplateInput(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "in", Type: "ChatInput", DisplayName: "Input", Template: map[string]flow.Field{"input_value": {Type: "str", Value: "default text"}}},
		},
	}

	exec := NewExecutor(g)
	result, err := exec.Execute(context.Background(), flow.Input{}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Result != "default text" {
		t.Errorf("expected template default, got %q", result.Result)
	}
}
