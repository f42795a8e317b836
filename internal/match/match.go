package match

import (
	"github.com/roach88/morphkit/internal/graph"
)

// Find returns every embedding of pattern into target, in lexicographic
// NodeMapping order.
//
// A pattern node with a non-empty label matches only target nodes bearing
// the identical label; an empty label matches any node. Every pattern
// edge a->b must be witnessed by at least one target edge between the
// assigned endpoints; all parallel witnesses are recorded in the
// returned EdgeMapping.
//
// Find never mutates its inputs. It panics on an empty pattern node
// list: that is a programmer error, not a recoverable condition, and
// behavior for empty patterns is deliberately undefined.
func Find(pattern, target *graph.Graph) []graph.Mapping {
	if len(pattern.Nodes) == 0 {
		panic("match: pattern graph must have at least one node")
	}

	// Stack of partial matches. The last entry of each NodeMapping is
	// speculative.
	stack := []graph.Mapping{{NodeMapping: []graph.NodeIndex{0}}}
	var matches []graph.Mapping

	for len(stack) > 0 {
		pm := &stack[len(stack)-1]
		i := graph.NodeIndex(len(pm.NodeMapping) - 1)
		j := &pm.NodeMapping[len(pm.NodeMapping)-1]

		// Try to map pattern node i to target node j.

		if int(*j) >= len(target.Nodes) {
			// No more candidates with this prefix, backtrack.
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.NodeMapping[len(parent.NodeMapping)-1]++
			}
			continue
		}

		if !labelAccepts(pattern.Nodes[i].Label, target.Nodes[*j].Label) {
			*j++
			continue
		}

		if !closedEdgesPresent(pattern, target, pm.NodeMapping, i) {
			*j++
			continue
		}

		// Partial match is consistent with the pattern.

		if len(pm.NodeMapping) == len(pattern.Nodes) {
			matches = append(matches, materialize(pattern, target, pm.NodeMapping))
			*j++
			continue
		}

		// Descend: speculate target node 0 for the next pattern node.
		child := pm.Clone()
		child.NodeMapping = append(child.NodeMapping, 0)
		stack = append(stack, child)
	}

	return matches
}

// labelAccepts reports whether a pattern node label admits a target node
// label. Empty pattern labels are wildcards.
func labelAccepts(patternLabel, targetLabel string) bool {
	return patternLabel == "" || patternLabel == targetLabel
}

// closedEdgesPresent verifies every pattern edge closed by assigning
// pattern node i: edges whose far endpoint is already assigned (index
// <= i) must have a witness between the corresponding target nodes.
func closedEdgesPresent(pattern, target *graph.Graph, assigned []graph.NodeIndex, i graph.NodeIndex) bool {
	j := assigned[i]
	for _, e := range pattern.Edges {
		if e.Head == i && e.Tail <= i {
			// Pattern edge tail -> i requires target edge assigned[tail] -> j.
			if !target.HasEdge(assigned[e.Tail], j) {
				return false
			}
		} else if e.Tail == i && e.Head <= i {
			// Pattern edge i -> head requires target edge j -> assigned[head].
			if !target.HasEdge(j, assigned[e.Head]) {
				return false
			}
		}
	}
	return true
}

// materialize completes a node embedding into a full Mapping by
// enumerating, for each pattern edge, every parallel target edge between
// the assigned endpoints.
func materialize(pattern, target *graph.Graph, assigned []graph.NodeIndex) graph.Mapping {
	m := graph.Mapping{
		NodeMapping: make([]graph.NodeIndex, len(assigned)),
		EdgeMapping: make([][]graph.EdgeIndex, len(pattern.Edges)),
	}
	copy(m.NodeMapping, assigned)
	for idx, e := range pattern.Edges {
		m.EdgeMapping[idx] = target.EdgesBetween(m.NodeMapping[e.Tail], m.NodeMapping[e.Head])
	}
	return m
}
