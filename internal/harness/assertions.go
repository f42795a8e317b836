package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/morphkit/internal/graph"
)

// AssertionError describes one failed scenario assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion %s failed\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkAssertions evaluates every assertion against the final graph and
// returns all failures (does not fail-fast).
func checkAssertions(g *graph.Graph, assertions []Assertion) []error {
	var failures []error
	for _, a := range assertions {
		switch a.Type {
		case "node_labels":
			actual := nodeLabels(g)
			if !equalStrings(a.Labels, actual) {
				failures = append(failures, &AssertionError{
					Type:     a.Type,
					Expected: fmt.Sprintf("%v", a.Labels),
					Actual:   fmt.Sprintf("%v", actual),
				})
			}
		case "edge_endpoints":
			actual := edgeEndpoints(g)
			if !equalStrings(a.Edges, actual) {
				failures = append(failures, &AssertionError{
					Type:     a.Type,
					Expected: fmt.Sprintf("%v", a.Edges),
					Actual:   fmt.Sprintf("%v", actual),
				})
			}
		case "node_count":
			if len(g.Nodes) != a.Count {
				failures = append(failures, &AssertionError{
					Type:     a.Type,
					Expected: fmt.Sprintf("%d", a.Count),
					Actual:   fmt.Sprintf("%d", len(g.Nodes)),
				})
			}
		case "edge_count":
			if len(g.Edges) != a.Count {
				failures = append(failures, &AssertionError{
					Type:     a.Type,
					Expected: fmt.Sprintf("%d", a.Count),
					Actual:   fmt.Sprintf("%d", len(g.Edges)),
				})
			}
		default:
			failures = append(failures, &AssertionError{
				Type:     a.Type,
				Expected: "a known assertion type",
				Actual:   fmt.Sprintf("unknown type %q", a.Type),
			})
		}
	}
	return failures
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
