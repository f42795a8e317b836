// Package harness provides a conformance testing framework for the
// rewriting engine.
//
// A scenario is a YAML document declaring annotated rule graphs, target
// graphs, a starting target, a sequence of rewrite steps, and assertions
// on the final graph. Running a scenario compiles the rules, threads
// each step's output into the next step's input, and records a trace:
// per step, the rule applied, how many matches existed, which ordinal
// was chosen, and a structural summary of the result.
//
// Because the engine is deterministic end to end, the trace is
// byte-stable and golden files are the source of truth for expected
// behavior: RunWithGolden serializes the trace as canonical JSON and
// compares it against testdata/golden/{scenario}.golden. Regenerate
// with:
//
//	go test ./internal/harness -update
package harness
