// Package match enumerates subgraph embeddings of a pattern graph inside
// a target graph.
//
// ALGORITHM:
//
// Depth-first backtracking over an explicit stack of partial matches.
// Pattern nodes are assigned in index order 0, 1, 2, ...; the last entry
// of the partial mapping on top of the stack is always speculative ("does
// pattern node k-1 map to target node j?"). A frame advances j past label
// mismatches and missing required edges, pushes a child frame when the
// speculative assignment survives, and pops when j runs past the target's
// node list.
//
// The one pruning step that matters: whenever pattern node k-1 is
// assigned, every pattern edge already closed by the partial mapping
// (both endpoints assigned, at least one of them being k-1) must be
// witnessed by a target edge between the assigned endpoints. Without
// this check the search still terminates, but degenerates to testing
// every node assignment.
//
// DETERMINISM:
//
// Target candidates are tried from index 0 upward, so matches come out in
// lexicographic NodeMapping order. No randomness, no concurrency; given
// identical inputs the result is byte-identical, which the golden tests
// rely on.
//
// Node injectivity is NOT enforced: two pattern nodes may map to the same
// target node unless labels or structure forbid it. Callers needing
// injective embeddings must arrange it through the pattern itself.
package match
