package rule

import (
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
)

// Rule is a compiled double-pushout rewrite rule: the span L <- K -> R
// with both injections materialized.
//
// Common is pure bookkeeping. Its nodes carry the shared attributes, but
// its edges carry only a label and dummy endpoints (0/0); they exist
// solely to pair an LHS edge with the RHS edge sharing that label.
// Nothing may trust a Common edge's endpoints.
//
// CommonToLHS.NodeMapping injects Common nodes into LHS; each entry of
// CommonToLHS.EdgeMapping is a singleton list naming exactly one LHS
// edge. CommonToRHS is the analogous injection into RHS.
type Rule struct {
	LHS    graph.Graph `json:"lhs"`
	Common graph.Graph `json:"common"`
	RHS    graph.Graph `json:"rhs"`

	CommonToLHS graph.Mapping `json:"common_to_lhs"`
	CommonToRHS graph.Mapping `json:"common_to_rhs"`
}

// Compile splits an annotated graph into a DPO rule.
//
// The graph must carry subgraph views named "L" and "R". Nodes selected
// by both views become Common nodes; edges pair through shared non-empty
// labels. Emission order follows the source graph: nodes and edges land
// in LHS/RHS/Common in source order, and Common edges in LHS-edge order.
//
// Returns a StructuralError when the annotations violate the authoring
// conventions (see package doc).
func Compile(g *graph.Graph) (*Rule, error) {
	lhsView := g.FindSubgraph(graph.SubgraphLHS)
	rhsView := g.FindSubgraph(graph.SubgraphRHS)
	if lhsView == nil || rhsView == nil {
		return nil, newMissingSubgraphError()
	}

	r := &Rule{}
	r.LHS.Name = g.Name
	r.RHS.Name = g.Name

	// Translation tables from source indices to side indices.
	toLHSNode := make([]graph.NodeIndex, len(g.Nodes))
	toRHSNode := make([]graph.NodeIndex, len(g.Nodes))
	for i := range g.Nodes {
		toLHSNode[i] = graph.InvalidIndex
		toRHSNode[i] = graph.InvalidIndex
	}

	for i := range g.Nodes {
		node := g.Nodes[i]
		inLHS := lhsView.Nodes[graph.NodeIndex(i)]
		inRHS := rhsView.Nodes[graph.NodeIndex(i)]
		if !inLHS && !inRHS {
			return nil, newNodeUnassignedError(node.Name)
		}
		if inLHS {
			r.LHS.Nodes = append(r.LHS.Nodes, node)
			toLHSNode[i] = graph.NodeIndex(len(r.LHS.Nodes) - 1)
		}
		if inRHS {
			r.RHS.Nodes = append(r.RHS.Nodes, node)
			toRHSNode[i] = graph.NodeIndex(len(r.RHS.Nodes) - 1)
		}
		if inLHS && inRHS {
			r.Common.Nodes = append(r.Common.Nodes, node)
			r.CommonToLHS.NodeMapping = append(r.CommonToLHS.NodeMapping, toLHSNode[i])
			r.CommonToRHS.NodeMapping = append(r.CommonToRHS.NodeMapping, toRHSNode[i])
		}
	}

	// Per-side maps from non-empty edge label to side edge index, for
	// uniqueness checking and Common edge synthesis.
	lhsLabelToEdge := make(map[string]graph.EdgeIndex)
	rhsLabelToEdge := make(map[string]graph.EdgeIndex)

	for m := range g.Edges {
		edge := g.Edges[m]
		inLHS := lhsView.Edges[graph.EdgeIndex(m)]
		inRHS := rhsView.Edges[graph.EdgeIndex(m)]
		if inLHS && inRHS {
			return nil, newEdgeInBothSidesError(m)
		}
		if !inLHS && !inRHS {
			return nil, newEdgeUnassignedError(m)
		}
		if inLHS {
			edge.Head = toLHSNode[edge.Head]
			edge.Tail = toLHSNode[edge.Tail]
			r.LHS.Edges = append(r.LHS.Edges, edge)
			if edge.Label != "" {
				if _, dup := lhsLabelToEdge[edge.Label]; dup {
					return nil, newDuplicateEdgeLabelError(edge.Label, "LHS")
				}
				lhsLabelToEdge[edge.Label] = graph.EdgeIndex(len(r.LHS.Edges) - 1)
			}
		}
		if inRHS {
			edge.Head = toRHSNode[edge.Head]
			edge.Tail = toRHSNode[edge.Tail]
			r.RHS.Edges = append(r.RHS.Edges, edge)
			if edge.Label != "" {
				if _, dup := rhsLabelToEdge[edge.Label]; dup {
					return nil, newDuplicateEdgeLabelError(edge.Label, "RHS")
				}
				rhsLabelToEdge[edge.Label] = graph.EdgeIndex(len(r.RHS.Edges) - 1)
			}
		}
	}

	// Synthesize one Common edge per label present on both sides. Walking
	// LHS edges in order keeps Common edge order deterministic.
	for mLHS := range r.LHS.Edges {
		label := r.LHS.Edges[mLHS].Label
		if label == "" {
			continue
		}
		mRHS, ok := rhsLabelToEdge[label]
		if !ok {
			continue
		}
		// Common edges are not connected to any nodes; endpoints are dummies.
		r.Common.Edges = append(r.Common.Edges, graph.Edge{Head: 0, Tail: 0, Label: label})
		r.CommonToLHS.EdgeMapping = append(r.CommonToLHS.EdgeMapping, []graph.EdgeIndex{graph.EdgeIndex(mLHS)})
		r.CommonToRHS.EdgeMapping = append(r.CommonToRHS.EdgeMapping, []graph.EdgeIndex{mRHS})
	}

	return r, nil
}

// CanonicalMap converts a rule to the map form consumed by
// graph.MarshalCanonical.
func (r *Rule) CanonicalMap() map[string]any {
	return map[string]any{
		"lhs":           r.LHS.CanonicalMap(),
		"common":        r.Common.CanonicalMap(),
		"rhs":           r.RHS.CanonicalMap(),
		"common_to_lhs": r.CommonToLHS.CanonicalMap(),
		"common_to_rhs": r.CommonToRHS.CanonicalMap(),
	}
}

// ID computes the content-addressed identity of a compiled rule.
func (r *Rule) ID() (string, error) {
	canonical, err := graph.MarshalCanonical(r.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("rule id: failed to marshal: %w", err)
	}
	return graph.SumWithDomain(graph.DomainRule, canonical), nil
}
