package flow

import (
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "in", Type: "ChatInput", Template: map[string]Field{"input_value": {Type: "str"}}},
			{ID: "mid", Type: "Prompt", Template: map[string]Field{"template": {Type: "prompt"}}},
			{ID: "out", Type: "ChatOutput", Template: map[string]Field{"count": {Type: "int"}}},
		},
		Edges: []Edge{
			{Source: "in", Target: "mid"},
			{Source: "mid", Target: "out"},
		},
	}

	a := Analyze(g)

	if a.NodeCount != 3 {
		t.Errorf("expected 3 nodes, got %d", a.NodeCount)
	}
	if a.EdgeCount != 2 {
		t.Errorf("expected 2 edges, got %d", a.EdgeCount)
	}
	if !reflect.DeepEqual(a.EntryPoints, []string{"in"}) {
		t.Errorf("unexpected entry points: %v", a.EntryPoints)
	}
	if !reflect.DeepEqual(a.ExitPoints, []string{"out"}) {
		t.Errorf("unexpected exit points: %v", a.ExitPoints)
	}
	if !reflect.DeepEqual(a.InputTypes, []string{"text"}) {
		t.Errorf("unexpected input types: %v", a.InputTypes)
	}
	if !reflect.DeepEqual(a.OutputTypes, []string{"numeric"}) {
		t.Errorf("unexpected output types: %v", a.OutputTypes)
	}
}

func TestAnalyzeDefaultsToText(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "only", Type: "Custom"}},
	}

	a := Analyze(g)

	if !reflect.DeepEqual(a.InputTypes, []string{"text"}) {
		t.Errorf("expected default text input types, got %v", a.InputTypes)
	}
	if !reflect.DeepEqual(a.OutputTypes, []string{"text"}) {
		t.Errorf("expected default text output types, got %v", a.OutputTypes)
	}
}
