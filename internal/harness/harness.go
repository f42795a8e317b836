package harness

import (
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/match"
	"github.com/roach88/morphkit/internal/rewrite"
	"github.com/roach88/morphkit/internal/rule"
)

// TraceStep records one executed rewrite step.
type TraceStep struct {
	Step         int      `json:"step"`
	Rule         string   `json:"rule"`
	MatchCount   int      `json:"match_count"`
	MatchOrdinal int      `json:"match_ordinal"`
	NodeLabels   []string `json:"node_labels"` // result node labels, in order
	Edges        []string `json:"edges"`       // result "tail->head", in order
}

// Result is the outcome of running a scenario.
type Result struct {
	Scenario   string      `json:"scenario"`
	Start      string      `json:"start"`
	Trace      []TraceStep `json:"trace"`
	FinalNodes int         `json:"final_nodes"`
	FinalEdges int         `json:"final_edges"`

	// Final is the last graph produced. Not part of the canonical trace.
	Final *graph.Graph `json:"-"`

	// Failures collects assertion errors. Not part of the canonical trace.
	Failures []error `json:"-"`
}

// CanonicalMap converts a result to the map form consumed by
// graph.MarshalCanonical, for golden-file comparison.
func (r *Result) CanonicalMap() map[string]any {
	trace := make([]any, len(r.Trace))
	for i, s := range r.Trace {
		trace[i] = map[string]any{
			"step":          s.Step,
			"rule":          s.Rule,
			"match_count":   s.MatchCount,
			"match_ordinal": s.MatchOrdinal,
			"node_labels":   stringsToCanonical(s.NodeLabels),
			"edges":         stringsToCanonical(s.Edges),
		}
	}
	return map[string]any{
		"scenario":    r.Scenario,
		"start":       r.Start,
		"trace":       trace,
		"final_nodes": r.FinalNodes,
		"final_edges": r.FinalEdges,
	}
}

func stringsToCanonical(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// Run executes a scenario: compile every rule, thread the steps, check
// the assertions. Execution errors (bad definitions, unknown names,
// out-of-range ordinals) abort with an error; assertion failures are
// collected in Result.Failures instead, so a test can report all of
// them.
func Run(sc *Scenario) (*Result, error) {
	rules := make(map[string]*rule.Rule, len(sc.Rules))
	for name, def := range sc.Rules {
		g, err := def.ToGraph(name)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		compiled, err := rule.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: rule %s: %w", sc.Name, name, err)
		}
		rules[name] = compiled
	}

	startDef, ok := sc.Targets[sc.Start]
	if !ok {
		return nil, fmt.Errorf("scenario %s: start target %q not defined", sc.Name, sc.Start)
	}
	current, err := startDef.ToGraph(sc.Start)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	result := &Result{Scenario: sc.Name, Start: sc.Start}

	for i, step := range sc.Steps {
		r, ok := rules[step.Rule]
		if !ok {
			return nil, fmt.Errorf("scenario %s: step %d: rule %q not defined", sc.Name, i, step.Rule)
		}

		matches := match.Find(&r.LHS, current)
		if step.ExpectMatches != nil && len(matches) != *step.ExpectMatches {
			return nil, fmt.Errorf("scenario %s: step %d: expected %d match(es), found %d",
				sc.Name, i, *step.ExpectMatches, len(matches))
		}
		if step.Match < 0 || step.Match >= len(matches) {
			return nil, fmt.Errorf("scenario %s: step %d: match ordinal %d out of range (%d match(es))",
				sc.Name, i, step.Match, len(matches))
		}

		current = rewrite.Apply(r, current, matches[step.Match])

		result.Trace = append(result.Trace, TraceStep{
			Step:         i,
			Rule:         step.Rule,
			MatchCount:   len(matches),
			MatchOrdinal: step.Match,
			NodeLabels:   nodeLabels(current),
			Edges:        edgeEndpoints(current),
		})
	}

	result.Final = current
	result.FinalNodes = len(current.Nodes)
	result.FinalEdges = len(current.Edges)
	result.Failures = checkAssertions(current, sc.Assertions)
	return result, nil
}

func nodeLabels(g *graph.Graph) []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Label
	}
	return out
}

func edgeEndpoints(g *graph.Graph) []string {
	out := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = fmt.Sprintf("%d->%d", e.Tail, e.Head)
	}
	return out
}
