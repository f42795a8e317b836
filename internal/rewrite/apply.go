package rewrite

import (
	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/rule"
)

// Apply rewrites target at the embedding lhsToTarget, returning a fresh
// graph. Inputs are never mutated; node and edge attribute maps are
// copied into the result.
//
// lhsToTarget must be an embedding of r.LHS into target as produced by
// match.Find. See the package doc for the emission order contract.
func Apply(r *rule.Rule, target *graph.Graph, lhsToTarget graph.Mapping) *graph.Graph {
	result := &graph.Graph{Name: target.Name}

	// Translation tables from target and RHS node indices to result
	// node indices.
	targetToResult := make([]graph.NodeIndex, len(target.Nodes))
	rhsToResult := make([]graph.NodeIndex, len(r.RHS.Nodes))
	for i := range targetToResult {
		targetToResult[i] = graph.InvalidIndex
	}
	for i := range rhsToResult {
		rhsToResult[i] = graph.InvalidIndex
	}

	// Target nodes outside the embedding: the preserved context.
	targetNodesInLHS := lhsToTarget.MappedNodeSet()
	for i := range target.Nodes {
		if !targetNodesInLHS[graph.NodeIndex(i)] {
			result.Nodes = append(result.Nodes, cloneNode(target.Nodes[i]))
			targetToResult[i] = graph.NodeIndex(len(result.Nodes) - 1)
		}
	}

	// Common nodes, preserved in place with target-side attributes. The
	// RHS never overwrites a preserved node's attributes. Filling both
	// translation tables at the same result index glues the context to
	// the fresh RHS material.
	for k := range r.Common.Nodes {
		lhsNode := r.CommonToLHS.NodeMapping[k]
		targetNode := lhsToTarget.NodeMapping[lhsNode]
		result.Nodes = append(result.Nodes, cloneNode(target.Nodes[targetNode]))
		targetToResult[targetNode] = graph.NodeIndex(len(result.Nodes) - 1)
		rhsToResult[r.CommonToRHS.NodeMapping[k]] = graph.NodeIndex(len(result.Nodes) - 1)
	}

	// RHS nodes outside the Common image: freshly introduced.
	rhsNodesInCommon := make(map[graph.NodeIndex]bool, len(r.CommonToRHS.NodeMapping))
	for _, i := range r.CommonToRHS.NodeMapping {
		rhsNodesInCommon[i] = true
	}
	for i := range r.RHS.Nodes {
		if !rhsNodesInCommon[graph.NodeIndex(i)] {
			result.Nodes = append(result.Nodes, cloneNode(r.RHS.Nodes[i]))
			rhsToResult[i] = graph.NodeIndex(len(result.Nodes) - 1)
		}
	}

	// Target edges outside the embedding's image.
	targetEdgesInLHS := lhsToTarget.MappedEdgeSet()
	for m := range target.Edges {
		if !targetEdgesInLHS[graph.EdgeIndex(m)] {
			edge := cloneEdge(target.Edges[m])
			edge.Head = targetToResult[edge.Head]
			edge.Tail = targetToResult[edge.Tail]
			result.Edges = append(result.Edges, edge)
		}
	}

	// Common edges: carry every target edge the paired LHS edge matched,
	// parallel multiplicities included.
	for m := range r.Common.Edges {
		// A Common edge maps to exactly one LHS edge.
		lhsEdge := r.CommonToLHS.EdgeMapping[m][0]
		for _, targetEdge := range lhsToTarget.EdgeMapping[lhsEdge] {
			edge := cloneEdge(target.Edges[targetEdge])
			edge.Head = targetToResult[edge.Head]
			edge.Tail = targetToResult[edge.Tail]
			result.Edges = append(result.Edges, edge)
		}
	}

	// RHS edges outside the Common image: freshly introduced.
	rhsEdgesInCommon := make(map[graph.EdgeIndex]bool)
	for _, rhsEdges := range r.CommonToRHS.EdgeMapping {
		for _, m := range rhsEdges {
			rhsEdgesInCommon[m] = true
		}
	}
	for m := range r.RHS.Edges {
		if !rhsEdgesInCommon[graph.EdgeIndex(m)] {
			edge := cloneEdge(r.RHS.Edges[m])
			edge.Head = rhsToResult[edge.Head]
			edge.Tail = rhsToResult[edge.Tail]
			result.Edges = append(result.Edges, edge)
		}
	}

	return result
}

func cloneNode(n graph.Node) graph.Node {
	n.Attrs = cloneAttrs(n.Attrs)
	return n
}

func cloneEdge(e graph.Edge) graph.Edge {
	e.Attrs = cloneAttrs(e.Attrs)
	return e
}

func cloneAttrs(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
