package testutil

import (
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
)

// GraphBuilder assembles test graphs deterministically.
//
// Nodes and edges land in insertion order, so the same builder calls
// always produce byte-identical graphs and golden snapshots stay stable.
//
// The builder tracks subgraph membership by element, which keeps rule
// fixtures readable:
//
//	g := testutil.NewGraphBuilder("rename").
//		Node("v", "a", "L", "R").
//		Build()
type GraphBuilder struct {
	g         graph.Graph
	subgraphs map[string]*graph.Subgraph
	order     []string
}

// NewGraphBuilder creates a builder for a graph with the given name.
func NewGraphBuilder(name string) *GraphBuilder {
	return &GraphBuilder{
		g:         graph.Graph{Name: name},
		subgraphs: make(map[string]*graph.Subgraph),
	}
}

// Node appends a node with the given name and label, adding it to each
// named subgraph. Returns the builder for chaining.
func (b *GraphBuilder) Node(name, label string, subgraphs ...string) *GraphBuilder {
	b.g.Nodes = append(b.g.Nodes, graph.Node{Name: name, Label: label})
	idx := graph.NodeIndex(len(b.g.Nodes) - 1)
	for _, sg := range subgraphs {
		b.subgraph(sg).Nodes[idx] = true
	}
	return b
}

// NodeAttrs appends a node carrying extra attributes.
func (b *GraphBuilder) NodeAttrs(name, label string, attrs map[string]string, subgraphs ...string) *GraphBuilder {
	b.Node(name, label, subgraphs...)
	b.g.Nodes[len(b.g.Nodes)-1].Attrs = attrs
	return b
}

// Edge appends an edge tail -> head (by node index) with the given label,
// adding it to each named subgraph.
func (b *GraphBuilder) Edge(tail, head graph.NodeIndex, label string, subgraphs ...string) *GraphBuilder {
	b.g.Edges = append(b.g.Edges, graph.Edge{Tail: tail, Head: head, Label: label})
	idx := graph.EdgeIndex(len(b.g.Edges) - 1)
	for _, sg := range subgraphs {
		b.subgraph(sg).Edges[idx] = true
	}
	return b
}

// Build returns the assembled graph. The builder must not be reused
// afterwards.
func (b *GraphBuilder) Build() *graph.Graph {
	for _, name := range b.order {
		b.g.Subgraphs = append(b.g.Subgraphs, *b.subgraphs[name])
	}
	return &b.g
}

func (b *GraphBuilder) subgraph(name string) *graph.Subgraph {
	if sg, ok := b.subgraphs[name]; ok {
		return sg
	}
	sg := &graph.Subgraph{
		Name:  name,
		Nodes: make(map[graph.NodeIndex]bool),
		Edges: make(map[graph.EdgeIndex]bool),
	}
	b.subgraphs[name] = sg
	b.order = append(b.order, name)
	return sg
}

// Labels returns the node labels of a graph in node order. Convenient
// for asserting on rewrite output without spelling out full structs.
func Labels(g *graph.Graph) []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Label
	}
	return out
}

// EdgeEndpoints returns "tail->head" strings in edge order.
func EdgeEndpoints(g *graph.Graph) []string {
	out := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = fmt.Sprintf("%d->%d", e.Tail, e.Head)
	}
	return out
}
