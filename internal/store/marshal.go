package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/rule"
)

// Stored bodies are the canonical JSON forms produced by CanonicalMap,
// so a row's body hashes back to its id. These shadow types exist only
// to decode those bodies; subgraph views are authoring artifacts and are
// never persisted.

type storedNode struct {
	Name  string            `json:"name"`
	Label string            `json:"label"`
	Attrs map[string]string `json:"attrs"`
}

type storedEdge struct {
	Head  graph.NodeIndex   `json:"head"`
	Tail  graph.NodeIndex   `json:"tail"`
	Label string            `json:"label"`
	Attrs map[string]string `json:"attrs"`
}

type storedGraph struct {
	Name  string       `json:"name"`
	Nodes []storedNode `json:"nodes"`
	Edges []storedEdge `json:"edges"`
}

type storedMapping struct {
	NodeMapping []graph.NodeIndex   `json:"node_mapping"`
	EdgeMapping [][]graph.EdgeIndex `json:"edge_mapping"`
}

type storedRule struct {
	LHS         storedGraph   `json:"lhs"`
	Common      storedGraph   `json:"common"`
	RHS         storedGraph   `json:"rhs"`
	CommonToLHS storedMapping `json:"common_to_lhs"`
	CommonToRHS storedMapping `json:"common_to_rhs"`
}

func marshalGraph(g *graph.Graph) (string, error) {
	body, err := graph.MarshalCanonical(g.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("marshal graph: %w", err)
	}
	return string(body), nil
}

func unmarshalGraph(body string) (*graph.Graph, error) {
	var sg storedGraph
	if err := json.Unmarshal([]byte(body), &sg); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return sg.toGraph(), nil
}

func (sg storedGraph) toGraph() *graph.Graph {
	g := &graph.Graph{Name: sg.Name}
	for _, n := range sg.Nodes {
		g.Nodes = append(g.Nodes, graph.Node{Name: n.Name, Label: n.Label, Attrs: emptyToNil(n.Attrs)})
	}
	for _, e := range sg.Edges {
		g.Edges = append(g.Edges, graph.Edge{Head: e.Head, Tail: e.Tail, Label: e.Label, Attrs: emptyToNil(e.Attrs)})
	}
	return g
}

func marshalRule(r *rule.Rule) (string, error) {
	body, err := graph.MarshalCanonical(r.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("marshal rule: %w", err)
	}
	return string(body), nil
}

func unmarshalRule(body string) (*rule.Rule, error) {
	var sr storedRule
	if err := json.Unmarshal([]byte(body), &sr); err != nil {
		return nil, fmt.Errorf("unmarshal rule: %w", err)
	}
	return &rule.Rule{
		LHS:         *sr.LHS.toGraph(),
		Common:      *sr.Common.toGraph(),
		RHS:         *sr.RHS.toGraph(),
		CommonToLHS: sr.CommonToLHS.toMapping(),
		CommonToRHS: sr.CommonToRHS.toMapping(),
	}, nil
}

// toMapping collapses the canonical form's empty lists back to nil, so a
// round-tripped rule compares equal to a freshly compiled one.
func (sm storedMapping) toMapping() graph.Mapping {
	m := graph.Mapping{NodeMapping: sm.NodeMapping, EdgeMapping: sm.EdgeMapping}
	if len(m.NodeMapping) == 0 {
		m.NodeMapping = nil
	}
	if len(m.EdgeMapping) == 0 {
		m.EdgeMapping = nil
	}
	return m
}

// emptyToNil collapses the canonical form's empty attribute objects back
// to nil, so a round-tripped graph compares equal to one built in code.
func emptyToNil(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
