package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/morphkit/internal/graph"
)

// RunWithGolden executes a scenario and compares its trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// The trace is serialized with canonical JSON, so the comparison is
// byte-exact; any change in match counts, emission order, or result
// structure shows up as a golden diff.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Assertion failures and
// golden mismatches are reported through t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, failure := range result.Failures {
		t.Error(failure)
	}

	traceJSON, err := graph.MarshalCanonical(result.CanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
