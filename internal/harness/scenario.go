package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/morphkit/internal/graphdef"
)

// Scenario defines a conformance test scenario.
// Scenarios declare their graphs inline, run a derivation sequence, and
// assert on the resulting graph.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules maps rule names to annotated graph definitions (with "L"/"R"
	// side annotations). Each is compiled when the scenario runs.
	Rules map[string]graphdef.GraphDef `yaml:"rules"`

	// Targets maps target names to plain graph definitions.
	Targets map[string]graphdef.GraphDef `yaml:"targets"`

	// Start names the target graph the first step applies to.
	Start string `yaml:"start"`

	// Steps is the derivation sequence. Each step's output becomes the
	// next step's input.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final graph.
	// Supported types: node_labels, edge_endpoints, node_count, edge_count
	Assertions []Assertion `yaml:"assertions"`
}

// Step applies one rule at one match ordinal.
type Step struct {
	// Rule names the rule to apply.
	Rule string `yaml:"rule"`

	// Match is the match ordinal to apply at (0 = first match).
	Match int `yaml:"match"`

	// ExpectMatches optionally pins the total number of matches the
	// rule's LHS must have at this step. Nil skips the check.
	ExpectMatches *int `yaml:"expect_matches,omitempty"`
}

// Assertion validates one property of the final graph.
type Assertion struct {
	// Type selects the check: node_labels, edge_endpoints, node_count,
	// or edge_count.
	Type string `yaml:"type"`

	// Labels is the expected node label sequence (node_labels).
	Labels []string `yaml:"labels,omitempty"`

	// Edges is the expected "tail->head" sequence (edge_endpoints).
	Edges []string `yaml:"edges,omitempty"`

	// Count is the expected count (node_count, edge_count).
	Count int `yaml:"count,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if sc.Start == "" {
		return nil, fmt.Errorf("scenario %s: missing start target", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &sc, nil
}
