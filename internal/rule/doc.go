// Package rule compiles annotated graphs into double-pushout rewrite
// rules.
//
// An annotated graph carries two named subgraph views, "L" and "R". The
// compiler splits it into the DPO span L <- K -> R: every node present in
// both views becomes a node of the common interface K, and every
// non-empty edge label present on both sides pairs one L-edge with one
// R-edge through a K-edge. Elements only in L are deletions; elements
// only in R are creations.
//
// Compilation is a pure function of the annotated graph. Emission order
// of nodes and edges follows their order in the source graph; this is
// observable and part of the contract, because the rewriter's output
// order (and therefore content-addressed identity) depends on it.
//
// Authoring conventions enforced here:
//   - every node belongs to L, R, or both; never neither
//   - every edge belongs to exactly one side (use two edges sharing a
//     label to preserve an edge across the rewrite)
//   - a non-empty edge label is unique within its side
package rule
