// Package rewrite applies a compiled rule to a target graph at a chosen
// embedding, producing the double-pushout result.
//
// CONSTRUCTION ORDER (observable; golden tests depend on it):
//
// Nodes of the result, in this sequence:
//  1. target nodes not covered by the embedding, in target order (the
//     preserved context)
//  2. one node per Common node, in Common order, carrying the TARGET
//     side's attributes (preserved in place, glued to the context)
//  3. RHS nodes outside the Common image, in RHS order (fresh nodes)
//
// Edges of the result, in this sequence:
//  1. target edges outside the embedding's edge image, in target order
//  2. per Common edge, every target edge its paired LHS edge maps to,
//     carrying parallel-edge multiplicities through
//  3. RHS edges outside the Common image, in RHS order (fresh edges)
//
// Deletions are implicit: anything in the LHS image but not reachable
// through Common is simply never re-emitted.
//
// The applier assumes well-formed inputs: rule invariants hold and the
// mapping is a valid embedding of the rule's LHS, as produced by the
// matcher. It does not re-validate.
package rewrite
