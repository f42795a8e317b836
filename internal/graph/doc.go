// Package graph defines the data model shared by the rule compiler, the
// matcher, and the rewriter: labeled directed multigraphs, subgraph views,
// and index-based correspondences between graphs.
//
// DESIGN:
//
// Indices, Not Pointers:
// Nodes and edges are stored in ordered slices and referenced exclusively
// by position index into their owning graph. There are no cross-owning
// pointers anywhere in the model, so values can be copied, hashed, and
// compared without cycle concerns.
//
// Immutability Contract:
// A Graph is treated as an immutable value once constructed. None of the
// engine operations (compile, match, apply) mutate their inputs; each
// produces fresh values. A single Graph may therefore be shared freely by
// concurrent readers.
//
// Determinism:
// Node and edge order is significant and observable. Every operation in
// this module preserves or documents its emission order, and canonical
// serialization (canonical.go) plus domain-separated hashing (hash.go)
// give graphs stable content-addressed identities for the catalog and for
// golden-file comparison.
package graph
