package flow

import (
	"encoding/json"
	"fmt"
)

// Field is a single template field on a node.
type Field struct {
	Type  string
	Value interface{}
}

// Node is one component instance in a flow graph.
type Node struct {
	ID          string
	Type        string
	DisplayName string
	Description string
	Template    map[string]Field
}

// Edge is a directed connection between two nodes.
type Edge struct {
	Source string
	Target string
}

// Graph is the parsed structure of a flow file. It is immutable after
// loading; per-run state (tweaks, intermediate values) lives in the executor.
type Graph struct {
	Name        string
	Description string
	Nodes       []Node
	Edges       []Edge
}

// Wire shapes of the flow JSON export format.
type (
	fileDoc struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Data        dataDoc `json:"data"`
	}

	dataDoc struct {
		Nodes []nodeDoc `json:"nodes"`
		Edges []edgeDoc `json:"edges"`
	}

	nodeDoc struct {
		ID   string      `json:"id"`
		Data nodeDataDoc `json:"data"`
	}

	nodeDataDoc struct {
		Type string      `json:"type"`
		Node nodeSpecDoc `json:"node"`
	}

	nodeSpecDoc struct {
		DisplayName string              `json:"display_name"`
		Description string              `json:"description"`
		Template    map[string]fieldDoc `json:"template"`
	}

	fieldDoc struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
	}

	edgeDoc struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
)

// ParseGraph decodes a flow JSON document into a Graph.
func ParseGraph(raw []byte) (*Graph, error) {
	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid flow JSON: %w", err)
	}

	if len(doc.Data.Nodes) == 0 {
		return nil, fmt.Errorf("flow contains no nodes")
	}

	g := &Graph{
		Name:        doc.Name,
		Description: doc.Description,
		Nodes:       make([]Node, 0, len(doc.Data.Nodes)),
		Edges:       make([]Edge, 0, len(doc.Data.Edges)),
	}

	for _, n := range doc.Data.Nodes {
		node := Node{
			ID:          n.ID,
			Type:        n.Data.Type,
			DisplayName: n.Data.Node.DisplayName,
			Description: n.Data.Node.Description,
			Template:    make(map[string]Field, len(n.Data.Node.Template)),
		}
		if node.DisplayName == "" {
			node.DisplayName = node.Type
		}
		for name, f := range n.Data.Node.Template {
			node.Template[name] = Field{Type: f.Type, Value: f.Value}
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, e := range doc.Data.Edges {
		g.Edges = append(g.Edges, Edge{Source: e.Source, Target: e.Target})
	}

	return g, nil
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
