package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/testutil"
)

// =============================================================================
// Well-Formed Compilation Tests
// =============================================================================

func TestCompileSharedNodesBecomeCommon(t *testing.T) {
	// Pure relabel rule: one node in both sides.
	g := testutil.NewGraphBuilder("relabel").
		Node("v", "a", "L", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)

	require.Len(t, r.LHS.Nodes, 1)
	require.Len(t, r.RHS.Nodes, 1)
	require.Len(t, r.Common.Nodes, 1)
	assert.Equal(t, []graph.NodeIndex{0}, r.CommonToLHS.NodeMapping)
	assert.Equal(t, []graph.NodeIndex{0}, r.CommonToRHS.NodeMapping)
	assert.Equal(t, r.LHS.Nodes[0], r.Common.Nodes[0], "common node carries the shared attributes")
}

func TestCompileSplitsSidesInSourceOrder(t *testing.T) {
	// Node order: lhs-only, shared, rhs-only. Each side graph must list
	// its nodes in source order.
	g := testutil.NewGraphBuilder("split").
		Node("del", "a", "L").
		Node("keep", "b", "L", "R").
		Node("new", "c", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, testutil.Labels(&r.LHS))
	assert.Equal(t, []string{"b", "c"}, testutil.Labels(&r.RHS))
	assert.Equal(t, []string{"b"}, testutil.Labels(&r.Common))
	assert.Equal(t, []graph.NodeIndex{1}, r.CommonToLHS.NodeMapping, "shared node is LHS node 1")
	assert.Equal(t, []graph.NodeIndex{0}, r.CommonToRHS.NodeMapping, "shared node is RHS node 0")
}

func TestCompileRewritesEdgeEndpointsPerSide(t *testing.T) {
	g := testutil.NewGraphBuilder("edges").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "old", "L").
		Edge(1, 0, "new", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)

	require.Len(t, r.LHS.Edges, 1)
	assert.Equal(t, graph.NodeIndex(0), r.LHS.Edges[0].Tail)
	assert.Equal(t, graph.NodeIndex(1), r.LHS.Edges[0].Head)
	require.Len(t, r.RHS.Edges, 1)
	assert.Equal(t, graph.NodeIndex(1), r.RHS.Edges[0].Tail)
	assert.Equal(t, graph.NodeIndex(0), r.RHS.Edges[0].Head)
	assert.Empty(t, r.Common.Edges, "distinct labels pair nothing")
}

func TestCompilePairsEdgesBySharedLabel(t *testing.T) {
	g := testutil.NewGraphBuilder("pair").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "conn", "L").
		Edge(0, 1, "conn", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)

	require.Len(t, r.Common.Edges, 1)
	assert.Equal(t, "conn", r.Common.Edges[0].Label)
	assert.Equal(t, graph.NodeIndex(0), r.Common.Edges[0].Head, "dummy endpoint")
	assert.Equal(t, graph.NodeIndex(0), r.Common.Edges[0].Tail, "dummy endpoint")
	assert.Equal(t, [][]graph.EdgeIndex{{0}}, r.CommonToLHS.EdgeMapping, "singleton pairing")
	assert.Equal(t, [][]graph.EdgeIndex{{0}}, r.CommonToRHS.EdgeMapping, "singleton pairing")
}

func TestCompileUnlabeledEdgesNeverPair(t *testing.T) {
	g := testutil.NewGraphBuilder("unlabeled").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "", "L").
		Edge(0, 1, "", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)
	assert.Empty(t, r.Common.Edges, "empty labels do not induce common edges")
}

func TestCompileCommonEdgeOrderFollowsLHS(t *testing.T) {
	g := testutil.NewGraphBuilder("order").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "b", "L").
		Edge(0, 1, "a", "L").
		Edge(0, 1, "a", "R").
		Edge(0, 1, "b", "R").
		Build()

	r, err := Compile(g)
	require.NoError(t, err)

	require.Len(t, r.Common.Edges, 2)
	assert.Equal(t, "b", r.Common.Edges[0].Label, "common edges follow LHS edge order")
	assert.Equal(t, "a", r.Common.Edges[1].Label)
	assert.Equal(t, [][]graph.EdgeIndex{{0}, {1}}, r.CommonToLHS.EdgeMapping)
	assert.Equal(t, [][]graph.EdgeIndex{{1}, {0}}, r.CommonToRHS.EdgeMapping)
}

func TestCompileDeterministicID(t *testing.T) {
	build := func() *graph.Graph {
		return testutil.NewGraphBuilder("det").
			Node("x", "x", "L", "R").
			Node("y", "y", "L").
			Edge(0, 1, "e", "L").
			Build()
	}

	r1, err := Compile(build())
	require.NoError(t, err)
	r2, err := Compile(build())
	require.NoError(t, err)

	id1, err := r1.ID()
	require.NoError(t, err)
	id2, err := r2.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

// =============================================================================
// Structural Error Tests
// =============================================================================

func TestCompileMissingSubgraphs(t *testing.T) {
	g := testutil.NewGraphBuilder("bare").Node("v", "a", "L").Build()

	_, err := Compile(g)
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeMissingSubgraph, se.Code)
}

func TestCompileNodeInNeitherSide(t *testing.T) {
	g := testutil.NewGraphBuilder("orphan").
		Node("kept", "a", "L", "R").
		Build()
	// A node outside both views; force the R view to exist first.
	g.Nodes = append(g.Nodes, graph.Node{Name: "stray", Label: "s"})

	_, err := Compile(g)
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeNodeUnassigned, se.Code)
	assert.Equal(t, "stray", se.Element, "error names the offending node")
	assert.Contains(t, se.Error(), "stray")
}

func TestCompileEdgeInNeitherSide(t *testing.T) {
	g := testutil.NewGraphBuilder("edge-orphan").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Build()
	g.Edges = append(g.Edges, graph.Edge{Tail: 0, Head: 1, Label: "e"})

	_, err := Compile(g)
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeEdgeUnassigned, se.Code)
}

func TestCompileEdgeInBothSides(t *testing.T) {
	g := testutil.NewGraphBuilder("edge-both").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "e", "L", "R").
		Build()

	_, err := Compile(g)
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeEdgeInBothSides, se.Code)
	assert.Contains(t, se.Message, "separate edges with the same label")
}

func TestCompileDuplicateLabelSameSide(t *testing.T) {
	g := testutil.NewGraphBuilder("dup-label").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "e", "L").
		Edge(1, 0, "e", "L").
		Build()

	_, err := Compile(g)
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeDuplicateEdgeLabel, se.Code)
	assert.Equal(t, "e", se.Element, "error names the offending label")
	assert.Contains(t, se.Error(), `"e"`)
}

func TestCompileDuplicateEmptyLabelAllowed(t *testing.T) {
	g := testutil.NewGraphBuilder("empty-labels").
		Node("x", "x", "L", "R").
		Node("y", "y", "L", "R").
		Edge(0, 1, "", "L").
		Edge(1, 0, "", "L").
		Build()

	_, err := Compile(g)
	assert.NoError(t, err, "empty labels are exempt from uniqueness")
}

func TestIsStructuralError(t *testing.T) {
	assert.True(t, IsStructuralError(newMissingSubgraphError()))
	assert.False(t, IsStructuralError(assert.AnError))
}
