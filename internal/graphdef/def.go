// Package graphdef holds the authoring-format representation of graphs:
// nodes referenced by name, edges by endpoint name, and optional side
// membership ("L"/"R") for annotated rule graphs. Both the CUE loader
// and the YAML scenario harness decode into these types, then convert
// to the index-based engine model.
package graphdef

import (
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
)

// NodeDef is an authored node. Sides lists the rule sides the node
// belongs to; empty on plain (non-annotated) graphs.
type NodeDef struct {
	Name  string            `json:"name" yaml:"name"`
	Label string            `json:"label,omitempty" yaml:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Sides []string          `json:"sides,omitempty" yaml:"sides,omitempty"`
}

// EdgeDef is an authored edge. Endpoints reference nodes by name; the
// conversion to the engine model resolves them to position indices.
type EdgeDef struct {
	From  string            `json:"from" yaml:"from"`
	To    string            `json:"to" yaml:"to"`
	Label string            `json:"label,omitempty" yaml:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Sides []string          `json:"sides,omitempty" yaml:"sides,omitempty"`
}

// GraphDef is an authored graph.
type GraphDef struct {
	Nodes []NodeDef `json:"nodes" yaml:"nodes"`
	Edges []EdgeDef `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// ToGraph converts an authored graph into the index-based engine model.
// Node and edge order is preserved. When any element declares sides, the
// result carries "L" and "R" subgraph views ready for rule compilation;
// elements without sides are left outside both views, which the compiler
// reports as a structural error naming them.
func (d GraphDef) ToGraph(name string) (*graph.Graph, error) {
	g := &graph.Graph{Name: name}

	nodeIndex := make(map[string]graph.NodeIndex, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("graph %q: node without a name", name)
		}
		if _, dup := nodeIndex[n.Name]; dup {
			return nil, fmt.Errorf("graph %q: duplicate node name %q", name, n.Name)
		}
		nodeIndex[n.Name] = graph.NodeIndex(len(g.Nodes))
		g.Nodes = append(g.Nodes, graph.Node{Name: n.Name, Label: n.Label, Attrs: n.Attrs})
	}

	for i, e := range d.Edges {
		tail, ok := nodeIndex[e.From]
		if !ok {
			return nil, fmt.Errorf("graph %q: edges[%d] references unknown node %q", name, i, e.From)
		}
		head, ok := nodeIndex[e.To]
		if !ok {
			return nil, fmt.Errorf("graph %q: edges[%d] references unknown node %q", name, i, e.To)
		}
		g.Edges = append(g.Edges, graph.Edge{Tail: tail, Head: head, Label: e.Label, Attrs: e.Attrs})
	}

	if !d.annotated() {
		return g, nil
	}

	lhs := graph.Subgraph{
		Name:  graph.SubgraphLHS,
		Nodes: make(map[graph.NodeIndex]bool),
		Edges: make(map[graph.EdgeIndex]bool),
	}
	rhs := graph.Subgraph{
		Name:  graph.SubgraphRHS,
		Nodes: make(map[graph.NodeIndex]bool),
		Edges: make(map[graph.EdgeIndex]bool),
	}
	for i, n := range d.Nodes {
		for _, side := range n.Sides {
			switch side {
			case graph.SubgraphLHS:
				lhs.Nodes[graph.NodeIndex(i)] = true
			case graph.SubgraphRHS:
				rhs.Nodes[graph.NodeIndex(i)] = true
			default:
				return nil, fmt.Errorf("graph %q: node %q has unknown side %q", name, n.Name, side)
			}
		}
	}
	for i, e := range d.Edges {
		for _, side := range e.Sides {
			switch side {
			case graph.SubgraphLHS:
				lhs.Edges[graph.EdgeIndex(i)] = true
			case graph.SubgraphRHS:
				rhs.Edges[graph.EdgeIndex(i)] = true
			default:
				return nil, fmt.Errorf("graph %q: edges[%d] has unknown side %q", name, i, side)
			}
		}
	}
	g.Subgraphs = []graph.Subgraph{lhs, rhs}
	return g, nil
}

func (d GraphDef) annotated() bool {
	for _, n := range d.Nodes {
		if len(n.Sides) > 0 {
			return true
		}
	}
	for _, e := range d.Edges {
		if len(e.Sides) > 0 {
			return true
		}
	}
	return false
}
