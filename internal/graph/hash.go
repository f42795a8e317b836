package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without colliding with old ids.
const (
	DomainGraph      = "morphkit/graph/v1"
	DomainRule       = "morphkit/rule/v1"
	DomainDerivation = "morphkit/derivation/v1"
)

// SumWithDomain computes a SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func SumWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ID computes the content-addressed identity of a graph. Two graphs with
// identical names, node lists, and edge lists (in order) share an ID;
// subgraph views do not participate, since they are authoring artifacts
// rather than graph content.
func (g *Graph) ID() (string, error) {
	canonical, err := MarshalCanonical(g.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("graph id: failed to marshal: %w", err)
	}
	return SumWithDomain(DomainGraph, canonical), nil
}
