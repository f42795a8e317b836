// Package store is the SQLite-backed catalog of graphs, compiled rules,
// and derivation steps.
//
// The rewriting core is pure and never touches the store; only the CLI
// derive command persists anything. Every row is keyed by
// content-addressed identity (canonical JSON hashed with a domain
// prefix), so re-recording the same graph or rule is an idempotent
// no-op (ON CONFLICT DO NOTHING) and a derivation chain can be replayed
// byte-for-byte.
//
// Derivations form the lineage: each row links an input graph, the rule
// applied, the match ordinal chosen, and the output graph, under a
// UUIDv7 run token grouping one derive invocation. Walking lineage
// backwards from any graph id reconstructs how it was built.
package store
