package rule

import (
	"errors"
	"fmt"
)

// Structural error codes (E200-E299).
const (
	// ErrCodeMissingSubgraph indicates a missing "L" or "R" subgraph view.
	ErrCodeMissingSubgraph = "E200"

	// ErrCodeNodeUnassigned indicates a node in neither the LHS nor the RHS.
	ErrCodeNodeUnassigned = "E201"

	// ErrCodeEdgeUnassigned indicates an edge in neither the LHS nor the RHS.
	ErrCodeEdgeUnassigned = "E202"

	// ErrCodeEdgeInBothSides indicates an edge selected by both subgraph views.
	ErrCodeEdgeInBothSides = "E203"

	// ErrCodeDuplicateEdgeLabel indicates a non-empty edge label used more
	// than once on the same side.
	ErrCodeDuplicateEdgeLabel = "E204"
)

// StructuralError reports an annotated graph that violates the authoring
// conventions. It names the offending element so the author can fix the
// source graph.
type StructuralError struct {
	// Code identifies the error category (E2xx).
	Code string `json:"code"`

	// Element names the offending node, edge, or label, when known.
	Element string `json:"element,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Element, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsStructuralError returns true if the error is a StructuralError.
// Uses errors.As to handle wrapped errors.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

func newMissingSubgraphError() *StructuralError {
	return &StructuralError{
		Code:    ErrCodeMissingSubgraph,
		Message: `graph must contain subgraphs named "L" and "R"`,
	}
}

func newNodeUnassignedError(name string) *StructuralError {
	return &StructuralError{
		Code:    ErrCodeNodeUnassigned,
		Element: name,
		Message: fmt.Sprintf("node %q is in neither the LHS nor the RHS", name),
	}
}

func newEdgeUnassignedError(index int) *StructuralError {
	return &StructuralError{
		Code:    ErrCodeEdgeUnassigned,
		Element: fmt.Sprintf("edges[%d]", index),
		Message: "edge is in neither the LHS nor the RHS",
	}
}

func newEdgeInBothSidesError(index int) *StructuralError {
	return &StructuralError{
		Code:    ErrCodeEdgeInBothSides,
		Element: fmt.Sprintf("edges[%d]", index),
		Message: `edge is in both the "L" and "R" subgraphs, use separate edges with the same label instead`,
	}
}

func newDuplicateEdgeLabelError(label, side string) *StructuralError {
	return &StructuralError{
		Code:    ErrCodeDuplicateEdgeLabel,
		Element: label,
		Message: fmt.Sprintf("edge label %q is used more than once in the %s", label, side),
	}
}
