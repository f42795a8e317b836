package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/rule"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// GetGraph loads a graph by content-addressed id.
func (s *Store) GetGraph(ctx context.Context, id string) (*graph.Graph, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM graphs WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get graph %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get graph: %w", err)
	}
	return unmarshalGraph(body)
}

// GetRule loads a compiled rule by content-addressed id.
func (s *Store) GetRule(ctx context.Context, id string) (*rule.Rule, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM rules WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get rule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return unmarshalRule(body)
}

// GraphRef is a catalog listing entry.
type GraphRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListGraphs returns every cataloged graph in stable id order.
func (s *Store) ListGraphs(ctx context.Context) ([]GraphRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM graphs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var refs []GraphRef
	for rows.Next() {
		var r GraphRef
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("list graphs: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// Lineage walks derivation records backwards from the given graph id and
// returns the chain root-first: the first entry produced the oldest
// ancestor, the last entry produced graphID itself. A graph with no
// recorded derivation yields an empty chain.
//
// When multiple derivations produced the same graph id (the catalog is
// content-addressed, so identical outputs collide by design), the
// earliest recorded one is followed.
func (s *Store) Lineage(ctx context.Context, graphID string) ([]Derivation, error) {
	var chain []Derivation
	seen := map[string]bool{}
	current := graphID

	for !seen[current] {
		seen[current] = true

		var d Derivation
		err := s.db.QueryRowContext(ctx, `
			SELECT id, run_token, step, rule_id, input_graph_id, output_graph_id, match_ordinal
			FROM derivations
			WHERE output_graph_id = ?
			ORDER BY rowid
			LIMIT 1
		`, current).Scan(&d.ID, &d.RunToken, &d.Step, &d.RuleID, &d.InputGraphID, &d.OutputGraphID, &d.MatchOrdinal)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lineage: %w", err)
		}

		chain = append(chain, d)
		current = d.InputGraphID
	}

	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
