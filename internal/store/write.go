package store

import (
	"context"
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/rule"
)

// PutGraph inserts a graph and returns its content-addressed id.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - storing the same
// graph twice is a silent no-op.
func (s *Store) PutGraph(ctx context.Context, g *graph.Graph) (string, error) {
	id, err := g.ID()
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}
	body, err := marshalGraph(g)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (id, name, body)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, g.Name, body)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}
	return id, nil
}

// PutRule inserts a compiled rule and returns its content-addressed id.
// sourceGraphID may be empty when the annotated source was not cataloged.
// Idempotent like PutGraph.
func (s *Store) PutRule(ctx context.Context, name, sourceGraphID string, r *rule.Rule) (string, error) {
	id, err := r.ID()
	if err != nil {
		return "", fmt.Errorf("put rule: %w", err)
	}
	body, err := marshalRule(r)
	if err != nil {
		return "", fmt.Errorf("put rule: %w", err)
	}

	var src any
	if sourceGraphID != "" {
		src = sourceGraphID
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rules (id, name, source_graph_id, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, name, src, body)
	if err != nil {
		return "", fmt.Errorf("put rule: %w", err)
	}
	return id, nil
}

// Derivation records one rewrite step: the rule applied to the input
// graph at the chosen match ordinal, producing the output graph.
// RunToken groups the steps of one derive invocation; Step is the
// 0-based position within the run.
type Derivation struct {
	ID            string `json:"id"`
	RunToken      string `json:"run_token"`
	Step          int    `json:"step"`
	RuleID        string `json:"rule_id"`
	InputGraphID  string `json:"input_graph_id"`
	OutputGraphID string `json:"output_graph_id"`
	MatchOrdinal  int    `json:"match_ordinal"`
}

// DerivationID computes the content-addressed id of a derivation record.
// The id covers the run token, so replaying the same steps under a new
// token records a distinct chain.
func DerivationID(d Derivation) (string, error) {
	canonical, err := graph.MarshalCanonical(map[string]any{
		"run_token":       d.RunToken,
		"step":            d.Step,
		"rule_id":         d.RuleID,
		"input_graph_id":  d.InputGraphID,
		"output_graph_id": d.OutputGraphID,
		"match_ordinal":   d.MatchOrdinal,
	})
	if err != nil {
		return "", fmt.Errorf("derivation id: failed to marshal: %w", err)
	}
	return graph.SumWithDomain(graph.DomainDerivation, canonical), nil
}

// RecordDerivation inserts a derivation record, filling in its id.
// Idempotent on duplicate ids. The referenced rule and graphs must
// already be cataloged (foreign key constraints).
func (s *Store) RecordDerivation(ctx context.Context, d *Derivation) error {
	id, err := DerivationID(*d)
	if err != nil {
		return fmt.Errorf("record derivation: %w", err)
	}
	d.ID = id

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO derivations (id, run_token, step, rule_id, input_graph_id, output_graph_id, match_ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, d.ID, d.RunToken, d.Step, d.RuleID, d.InputGraphID, d.OutputGraphID, d.MatchOrdinal)
	if err != nil {
		return fmt.Errorf("record derivation: %w", err)
	}
	return nil
}
