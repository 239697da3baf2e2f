package connectivity

import (
	"errors"
	"testing"

	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNeuronID = "http://uri.interlex.org/tgbugs/uris/readable/neuron-type-keast-7"

func neuron(root *Node, predicates map[string][]string) *Neuron {
	return &Neuron{
		ID:           testNeuronID,
		Label:        "neuron type keast 7",
		PrefLabel:    "pelvic ganglion neuron",
		PartialOrder: root,
		Predicates:   predicates,
	}
}

func ptr(n Node) *Node { return &n }

func TestNormalize_SimpleChain(t *testing.T) {
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), Concrete(s("B"), leaf("C")))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B"},
			npo.HasAxonPresynapticElementIn: {"C"},
		}), Options{})
	require.NoError(t, err)

	assert.True(t, st.Origins.Entities.Equal(setOf("A")))
	require.Len(t, st.Vias, 1)
	assert.True(t, st.Vias[0].Entities.Equal(setOf("B")))
	assert.Empty(t, st.Vias[0].From)
	assert.Equal(t, 0, st.Vias[0].Order)
	require.Len(t, st.Destinations, 1)
	assert.True(t, st.Destinations[0].Entities.Equal(setOf("C")))
	assert.Empty(t, st.Destinations[0].From)
	assert.False(t, st.ValidationErrors.HasErrors())
	assert.Equal(t, "keast", st.PopulationSet)
}

func TestNormalize_BranchingReconverge(t *testing.T) {
	predicates := map[string][]string{
		npo.HasSomaLocatedIn:            {"A"},
		npo.HasAxonLocatedIn:            {"B1"},
		npo.HasDendriteLocatedIn:        {"B2"},
		npo.HasAxonPresynapticElementIn: {"C"},
	}
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), Branch(
			Concrete(s("B1"), leaf("C")),
			Concrete(s("B2"), leaf("C")),
		))),
		predicates), Options{})
	require.NoError(t, err)

	require.Len(t, st.Vias, 2)
	assert.Equal(t, 0, st.Vias[0].Order)
	assert.Equal(t, 1, st.Vias[1].Order)
	assert.True(t, st.Vias[0].Entities.Equal(setOf("B1")))
	assert.Empty(t, st.Vias[0].From, "B1 follows the origin")
	assert.True(t, st.Vias[1].From.Equal(setOf("A")), "B2 does not follow B1")

	require.Len(t, st.Destinations, 1)
	assert.True(t, st.Destinations[0].From.Equal(setOf("B1", "B2")))
}

func TestNormalize_BranchingSameKindMergesVias(t *testing.T) {
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), Branch(
			Concrete(s("B1"), leaf("C")),
			Concrete(s("B2"), leaf("C")),
		))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B1", "B2"},
			npo.HasAxonPresynapticElementIn: {"C"},
		}), Options{})
	require.NoError(t, err)

	require.Len(t, st.Vias, 1)
	assert.True(t, st.Vias[0].Entities.Equal(setOf("B1", "B2")))
	assert.Empty(t, st.Vias[0].From)
	require.Len(t, st.Destinations, 1)
	assert.Empty(t, st.Destinations[0].From, "predecessors equal the merged via")
}

func TestNormalize_AxiomNotFound(t *testing.T) {
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), Concrete(s("X"), leaf("C")))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonPresynapticElementIn: {"C"},
		}), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"X"}, st.ValidationErrors.AxiomNotFound.Sorted())
	assert.Empty(t, st.ValidationErrors.NonSpecified)
	require.Len(t, st.Destinations, 1)
	assert.Empty(t, st.Destinations[0].From, "C inherits A as predecessor")
	assert.Contains(t, st.ValidationErrors.String(), "Axiom(s) not found for: X")
}

func TestNormalize_MissingAxiomEntity(t *testing.T) {
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), leaf("C"))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A", "Z"},
			npo.HasAxonPresynapticElementIn: {"C"},
		}), Options{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Neurondm: Missing origins URI not found in actual URIs: Z"},
		st.ValidationErrors.NonSpecified)
	assert.True(t, st.Origins.Entities.Equal(setOf("A")))
}

func TestNormalize_NoPartialOrder(t *testing.T) {
	tests := []struct {
		name string
		root *Node
	}{
		{"absent", nil},
		{"empty branch", ptr(Branch())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Normalize(neuron(tt.root, nil), Options{})
			assert.Nil(t, st)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoPartialOrder))

			var ie *InconsistencyError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, testNeuronID, ie.StatementID)
			assert.Equal(t, MsgNoPartialOrder, ie.Message)
		})
	}
}

func TestNormalize_NoPopulationSet(t *testing.T) {
	n := neuron(ptr(leaf("A")), nil)
	n.ID = "http://example.org/plain"

	_, err := Normalize(n, Options{})
	assert.True(t, errors.Is(err, ErrNoPopulationSet))
	assert.True(t, IsInconsistency(err))
}

func TestNormalize_ScalarsAndAlerts(t *testing.T) {
	n := neuron(ptr(Concrete(s("A"), leaf("C"))), map[string][]string{
		npo.HasSomaLocatedIn:                  {"A"},
		npo.HasAxonPresynapticElementIn:       {"C"},
		npo.HasInstanceInTaxon:                {"taxon"},
		npo.HasBiologicalSex:                  {"sex"},
		npo.HasCircuitRolePhenotype:           {"ctype"},
		npo.HasFunctionalCircuitRolePhenotype: {"crole"},
		npo.HasAnatomicalSystemPhenotype:      {"sympathetic"},
		npo.HasPhenotype:                      {"p1"},
		npo.HasMolecularPhenotype:             {"p2"},
		npo.HasProjectionPhenotype:            {"p3"},
		npo.LiteratureCitation:                {"doi:1"},
		npo.SentenceNumber:                    {"12"},
		npo.AlertNote:                         {"check me"},
		npo.HasForwardConnectionPhenotype:     {"fc1", "fc2"},
	})
	n.Annotations = []Annotation{
		{Predicate: "alert:a", Object: "first"},
		{Predicate: "other", Object: "ignored"},
		{Predicate: "alert:a", Object: "second"},
	}

	st, err := Normalize(n, Options{StatementAlertURIs: map[string]struct{}{"alert:a": {}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"taxon"}, st.Species)
	assert.Equal(t, []string{"sex"}, st.Sex)
	assert.Equal(t, []string{"ctype"}, st.CircuitType)
	assert.Equal(t, []string{"crole"}, st.CircuitRole)
	assert.Equal(t, []string{"sympathetic"}, st.Phenotype)
	assert.Equal(t, []string{"p1", "p2", "p3"}, st.OtherPhenotypes)
	assert.Equal(t, []string{"doi:1"}, st.Provenance)
	assert.Equal(t, []string{"12"}, st.SentenceNumber)
	assert.Equal(t, []string{"check me"}, st.NoteAlert)
	assert.Equal(t, []Annotation{
		{Predicate: "alert:a", Object: "first"},
		{Predicate: "alert:a", Object: "second"},
	}, st.StatementAlerts)

	require.Len(t, st.ForwardConnection, 2)
	assert.Equal(t, []string{"fc1", "fc2"}, st.ForwardConnectionIDs())
	for _, fc := range st.ForwardConnection {
		assert.Equal(t, st.Label, fc.Label)
		assert.Equal(t, st.Origins, fc.Origins)
		assert.Nil(t, fc.ForwardConnection)
		assert.NotSame(t, st.ValidationErrors, fc.ValidationErrors)
	}

	st.ValidationErrors.ForwardConnection.Add("fc2")
	for _, fc := range st.ForwardConnection {
		assert.Empty(t, fc.ValidationErrors.ForwardConnection, fc.ID)
	}
}

func TestNormalize_FromCleanupInvariant(t *testing.T) {
	st, err := Normalize(neuron(
		ptr(Concrete(s("A"), Concrete(s("B"), Branch(
			Concrete(s("C"), leaf("E")),
			Concrete(s("D"), leaf("E")),
		)))),
		map[string][]string{
			npo.HasSomaLocatedIn:            {"A"},
			npo.HasAxonLocatedIn:            {"B", "C"},
			npo.HasDendriteLocatedIn:        {"D"},
			npo.HasAxonPresynapticElementIn: {"E"},
		}), Options{})
	require.NoError(t, err)

	previous := st.Origins.Entities
	for i, v := range st.Vias {
		assert.Equal(t, i, v.Order)
		assert.False(t, len(v.From) > 0 && v.From.Equal(previous), "via %d keeps a redundant backlink", i)
		previous = v.Entities
	}
	for _, d := range st.Destinations {
		assert.False(t, len(d.From) > 0 && d.From.Equal(previous))
	}
}

func TestCleanupFrom(t *testing.T) {
	origin := Origin{Entities: setOf("a")}
	vias := []Via{
		via([]string{"c"}, []string{"b"}, 1, ViaAxon),
		via([]string{"b"}, []string{"a"}, 0, ViaAxon),
	}
	destinations := []Destination{
		dest([]string{"d"}, []string{"c"}, DestinationAxonTerminal),
		dest([]string{"e"}, []string{"b"}, DestinationAxonTerminal),
	}

	CleanupFrom(origin, vias, destinations)

	assert.Empty(t, vias[0].From)
	assert.Empty(t, vias[1].From)
	assert.Empty(t, destinations[0].From)
	assert.True(t, destinations[1].From.Equal(setOf("b")))
}
