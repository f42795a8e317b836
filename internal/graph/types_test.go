package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainGraph() *Graph {
	// a -> b -> c with one parallel a -> b edge
	return &Graph{
		Name: "chain",
		Nodes: []Node{
			{Name: "a", Label: "a"},
			{Name: "b", Label: "b"},
			{Name: "c", Label: "c"},
		},
		Edges: []Edge{
			{Tail: 0, Head: 1, Label: "e0"},
			{Tail: 1, Head: 2, Label: "e1"},
			{Tail: 0, Head: 1, Label: "e2"},
		},
	}
}

func TestHasEdgeDirectionSignificant(t *testing.T) {
	g := chainGraph()

	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(1, 0), "edges are directed")
	assert.False(t, g.HasEdge(0, 2))
}

func TestEdgesBetweenParallelEdges(t *testing.T) {
	g := chainGraph()

	edges := g.EdgesBetween(0, 1)
	assert.Equal(t, []EdgeIndex{0, 2}, edges, "parallel edges reported in edge order")

	assert.Nil(t, g.EdgesBetween(2, 0), "no edges between unconnected nodes")
}

func TestFindSubgraph(t *testing.T) {
	g := chainGraph()
	g.Subgraphs = []Subgraph{
		{Name: SubgraphLHS, Nodes: map[NodeIndex]bool{0: true}},
		{Name: SubgraphRHS, Nodes: map[NodeIndex]bool{1: true}},
	}

	require.NotNil(t, g.FindSubgraph("L"))
	assert.Equal(t, "L", g.FindSubgraph("L").Name)
	assert.Nil(t, g.FindSubgraph("K"), "unknown subgraph name")
}

func TestCloneIsDeep(t *testing.T) {
	g := chainGraph()
	g.Nodes[0].Attrs = map[string]string{"joint": "revolute"}
	g.Subgraphs = []Subgraph{
		{Name: SubgraphLHS, Nodes: map[NodeIndex]bool{0: true}, Edges: map[EdgeIndex]bool{0: true}},
	}

	cp := g.Clone()
	require.Equal(t, g, cp)

	// Mutating the copy must not leak into the original.
	cp.Nodes[0].Attrs["joint"] = "prismatic"
	cp.Nodes[1].Label = "changed"
	cp.Subgraphs[0].Nodes[2] = true

	assert.Equal(t, "revolute", g.Nodes[0].Attrs["joint"])
	assert.Equal(t, "b", g.Nodes[1].Label)
	assert.False(t, g.Subgraphs[0].Nodes[2])
}

func TestMappingSets(t *testing.T) {
	m := Mapping{
		NodeMapping: []NodeIndex{2, 0, 2},
		EdgeMapping: [][]EdgeIndex{{1, 3}, nil, {3}},
	}

	nodes := m.MappedNodeSet()
	assert.True(t, nodes[0])
	assert.True(t, nodes[2])
	assert.False(t, nodes[1])

	edges := m.MappedEdgeSet()
	assert.True(t, edges[1])
	assert.True(t, edges[3])
	assert.False(t, edges[0])
}

func TestMappingCloneIndependent(t *testing.T) {
	m := Mapping{
		NodeMapping: []NodeIndex{0, 1},
		EdgeMapping: [][]EdgeIndex{{0}},
	}

	cp := m.Clone()
	cp.NodeMapping[0] = 9
	cp.EdgeMapping[0][0] = 9

	assert.Equal(t, NodeIndex(0), m.NodeMapping[0])
	assert.Equal(t, EdgeIndex(0), m.EdgeMapping[0][0])
}
