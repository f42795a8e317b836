package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Canonical JSON Tests
// =============================================================================

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`, string(b))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(b))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"weight": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute (NFD) normalizes to the precomposed form (NFC).
	nfd := "e\u0301"
	nfc := "\u00e9"

	a, err := MarshalCanonical(nfd)
	require.NoError(t, err)
	b, err := MarshalCanonical(nfc)
	require.NoError(t, err)
	assert.Equal(t, b, a, "NFD and NFC spellings must serialize identically")
}

func TestMarshalCanonicalIndexTypes(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"head": NodeIndex(2),
		"edge": EdgeIndex(5),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"edge":5,"head":2}`, string(b))
}

// =============================================================================
// Content Identity Tests
// =============================================================================

func TestGraphIDDeterministic(t *testing.T) {
	g := &Graph{
		Name:  "arm",
		Nodes: []Node{{Name: "base", Label: "link", Attrs: map[string]string{"len": "2"}}},
		Edges: []Edge{{Tail: 0, Head: 0, Label: "loop"}},
	}

	id1, err := g.ID()
	require.NoError(t, err)
	id2, err := g.Clone().ID()
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "identical graphs share an ID")
	assert.Len(t, id1, 64, "hex SHA-256")
}

func TestGraphIDSensitiveToOrder(t *testing.T) {
	a := &Graph{Nodes: []Node{{Label: "x"}, {Label: "y"}}}
	b := &Graph{Nodes: []Node{{Label: "y"}, {Label: "x"}}}

	idA, err := a.ID()
	require.NoError(t, err)
	idB, err := b.ID()
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB, "node order is observable content")
}

func TestGraphIDIgnoresSubgraphViews(t *testing.T) {
	a := &Graph{Nodes: []Node{{Label: "x"}}}
	b := a.Clone()
	b.Subgraphs = []Subgraph{{Name: SubgraphLHS, Nodes: map[NodeIndex]bool{0: true}}}

	idA, err := a.ID()
	require.NoError(t, err)
	idB, err := b.ID()
	require.NoError(t, err)

	assert.Equal(t, idA, idB, "views are authoring artifacts, not content")
}

func TestSumWithDomainSeparation(t *testing.T) {
	data := []byte(`{"nodes":[]}`)
	assert.NotEqual(t,
		SumWithDomain(DomainGraph, data),
		SumWithDomain(DomainRule, data),
		"same bytes under different domains must not collide")
}
