package flow

import "sort"

// Analysis summarizes the structure of a graph for the info endpoint.
type Analysis struct {
	NodeCount   int      `json:"node_count"`
	EdgeCount   int      `json:"edge_count"`
	EntryPoints []string `json:"entry_points"`
	ExitPoints  []string `json:"exit_points"`
	InputTypes  []string `json:"input_types"`
	OutputTypes []string `json:"output_types"`
}

// Analyze computes structural information about the graph: component and
// connection counts, entry/exit points, and input/output types inferred from
// the template field types of the boundary nodes.
func Analyze(g *Graph) Analysis {
	a := Analysis{
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		EntryPoints: []string{},
		ExitPoints:  []string{},
	}

	hasIncoming := make(map[string]bool, len(g.Nodes))
	hasOutgoing := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		hasIncoming[e.Target] = true
		hasOutgoing[e.Source] = true
	}

	inputTypes := make(map[string]bool)
	outputTypes := make(map[string]bool)

	for _, n := range g.Nodes {
		if !hasIncoming[n.ID] {
			a.EntryPoints = append(a.EntryPoints, n.ID)
			collectFieldTypes(n, inputTypes)
		}
		if !hasOutgoing[n.ID] {
			a.ExitPoints = append(a.ExitPoints, n.ID)
			collectFieldTypes(n, outputTypes)
		}
	}

	a.InputTypes = sortedKeys(inputTypes)
	a.OutputTypes = sortedKeys(outputTypes)
	if len(a.InputTypes) == 0 {
		a.InputTypes = []string{"text"}
	}
	if len(a.OutputTypes) == 0 {
		a.OutputTypes = []string{"text"}
	}

	return a
}

func collectFieldTypes(n Node, into map[string]bool) {
	for _, f := range n.Template {
		switch f.Type {
		case "str", "text", "string":
			into["text"] = true
		case "int", "float", "number":
			into["numeric"] = true
		case "file", "path":
			into["file"] = true
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
