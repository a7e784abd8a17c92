package graph

import (
	"strings"

	"github.com/flowgrid/flowserve/internal/flow"
)

// defaultHandlers returns the built-in component registry. Unregistered
// component types pass their input through unchanged.
func defaultHandlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"ChatInput":  handleInput,
		"TextInput":  handleInput,
		"Prompt":     handlePrompt,
		"ChatOutput": handleOutput,
		"TextOutput": handleOutput,
	}
}

// handleInput seeds the run with the request's input value, falling back to
// the node's stored input_value template field when the request carries none.
func handleInput(rc *RunContext, node *flow.Node, input string) (string, error) {
	value := rc.Input().InputValue
	if value == "" {
		value = rc.FieldString(node, "input_value")
	}
	rc.Logf("component %s: input %q", node.DisplayName, value)
	return value, nil
}

// handlePrompt renders the node's template field, substituting {input} with
// the incoming text and {name} with any string-valued template field.
func handlePrompt(rc *RunContext, node *flow.Node, input string) (string, error) {
	template := rc.FieldString(node, "template")
	if template == "" {
		return input, nil
	}

	rendered := strings.ReplaceAll(template, "{input}", input)
	for name := range node.Template {
		if name == "template" {
			continue
		}
		if value := rc.FieldString(node, name); value != "" {
			rendered = strings.ReplaceAll(rendered, "{"+name+"}", value)
		}
	}

	rc.Logf("component %s: rendered prompt (%d chars)", node.DisplayName, len(rendered))
	return rendered, nil
}

// handleOutput emits the final text to the stream and terminates the chain.
func handleOutput(rc *RunContext, node *flow.Node, input string) (string, error) {
	rc.Emit(input)
	rc.Logf("component %s: output %q", node.DisplayName, input)
	return input, nil
}
