package connectivity

import (
	"testing"

	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(uri string) AnatomicalEntity { return SimpleEntity(uri) }

func leaf(uri string) Node { return Concrete(s(uri)) }

func walkTree(t *testing.T, root Node, predicates map[string][]string) (segments, *ValidationErrors) {
	t.Helper()
	var acc segments
	diag := NewValidationErrors()
	walk(root, NewAxioms(predicates), EntitySet{}, 0, &acc, diag)
	return acc, diag
}

func TestWalk_SimpleChain(t *testing.T) {
	acc, diag := walkTree(t,
		Concrete(s("A"), Concrete(s("B"), leaf("C"))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B"},
			npo.HasAxonPresynapticElementIn: {"C"},
		})

	require.Len(t, acc.origins, 1)
	require.Len(t, acc.vias, 1)
	require.Len(t, acc.destinations, 1)
	assert.False(t, diag.HasErrors())

	assert.True(t, acc.origins[0].Entities.Equal(NewEntitySet(s("A"))))
	assert.True(t, acc.vias[0].From.Equal(NewEntitySet(s("A"))))
	assert.Equal(t, 1, acc.vias[0].Order)
	assert.Equal(t, ViaAxon, acc.vias[0].Kind)
	assert.True(t, acc.destinations[0].From.Equal(NewEntitySet(s("B"))))
	assert.Equal(t, DestinationAxonTerminal, acc.destinations[0].Kind)
}

func TestWalk_BranchKeepsFromAndDepth(t *testing.T) {
	acc, _ := walkTree(t,
		Concrete(s("A"), Branch(
			Concrete(s("B1"), leaf("C")),
			Concrete(s("B2"), leaf("C")),
		)),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B1", "B2"},
			npo.HasAxonPresynapticElementIn: {"C"},
		})

	require.Len(t, acc.vias, 2)
	for _, v := range acc.vias {
		assert.Equal(t, 1, v.Order)
		assert.True(t, v.From.Equal(NewEntitySet(s("A"))))
	}
	require.Len(t, acc.destinations, 2)
	assert.True(t, acc.destinations[0].From.Equal(NewEntitySet(s("B1"))))
	assert.True(t, acc.destinations[1].From.Equal(NewEntitySet(s("B2"))))
}

func TestWalk_UnmatchedNodeIsTransparent(t *testing.T) {
	acc, diag := walkTree(t,
		Concrete(s("A"), Concrete(s("X"), Concrete(s("B"), leaf("C")))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B"},
			npo.HasAxonPresynapticElementIn: {"C"},
		})

	assert.Equal(t, []string{"X"}, diag.AxiomNotFound.Sorted())
	require.Len(t, acc.vias, 1)
	assert.True(t, acc.vias[0].From.Equal(NewEntitySet(s("A"))), "X does not become a predecessor")
	assert.Equal(t, 1, acc.vias[0].Order, "X does not advance depth")
}

func TestWalk_UnmatchedRootKeepsDepthZero(t *testing.T) {
	acc, diag := walkTree(t,
		Concrete(s("X"), Concrete(s("A"), leaf("C"))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonPresynapticElementIn: {"C"},
		})

	assert.Contains(t, diag.AxiomNotFound, "X")
	require.Len(t, acc.origins, 1)
	require.Len(t, acc.destinations, 1)
	assert.True(t, acc.destinations[0].From.Equal(NewEntitySet(s("A"))))
}

func TestWalk_CompositeDiagnostic(t *testing.T) {
	_, diag := walkTree(t,
		Concrete(s("A"), Concrete(RegionLayerEntity("R", "L"))),
		map[string][]string{npo.HasSomaLocatedIn: {"A"}})

	assert.Equal(t, []string{"R (region), L (layer)"}, diag.AxiomNotFound.Sorted())
}

func TestWalk_DestinationNeedNotBeLeaf(t *testing.T) {
	acc, _ := walkTree(t,
		Concrete(s("A"), Concrete(s("D1"), leaf("D2"))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonPresynapticElementIn: {"D1", "D2"},
		})

	require.Len(t, acc.destinations, 2)
	assert.True(t, acc.destinations[1].From.Equal(NewEntitySet(s("D1"))))
}
