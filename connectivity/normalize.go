package connectivity

import (
	"errors"

	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
)

// Neuron is one upstream neuron description, already resolved from the
// ontology graph into plain values.
type Neuron struct {
	ID        string
	Label     string
	PrefLabel string
	OWLClass  string

	// PartialOrder is nil when the neuron declares none.
	PartialOrder *Node

	// Predicates holds object values keyed by predicate IRI, in source order.
	Predicates map[string][]string

	// Annotations are all (predicate, object) pairs attached to the neuron.
	Annotations []Annotation
}

// Values returns the objects of predicate.
func (n *Neuron) Values(predicate string) []string {
	return n.Predicates[predicate]
}

// Options tune a normalization.
type Options struct {
	// SourceLabel prefixes consistency messages. Defaults to DefaultSourceLabel.
	SourceLabel string

	// StatementAlertURIs selects the annotations copied into StatementAlerts.
	StatementAlertURIs map[string]struct{}
}

// Normalize turns one neuron into a connectivity statement.
//
// The partial order is walked to collect origins, vias and destinations,
// the discovered entities are checked against the neuron's axioms, and the
// segments are merged and stripped of redundant predecessor links.
// Diagnostics are attached to the returned statement.
//
// A neuron without a partial order or population set is rejected with an
// *InconsistencyError.
func Normalize(n *Neuron, opts Options) (*Statement, error) {
	if n.PartialOrder == nil || n.PartialOrder.IsEmpty() {
		return nil, &InconsistencyError{
			StatementID: n.ID,
			Message:     MsgNoPartialOrder,
			Err:         ErrNoPartialOrder,
		}
	}

	populationSet, err := PopulationSet(n.ID, n.OWLClass)
	if err != nil {
		return nil, &InconsistencyError{
			StatementID: n.ID,
			Message:     MsgNoPopulationSet,
			Err:         err,
		}
	}

	source := opts.SourceLabel
	if source == "" {
		source = DefaultSourceLabel
	}

	axioms := NewAxioms(n.Predicates)
	diag := NewValidationErrors()
	var raw segments
	walk(*n.PartialOrder, axioms, EntitySet{}, 0, &raw, diag)

	Validate(source, axioms, raw.origins, raw.vias, raw.destinations, diag)

	origin := MergeOrigins(raw.origins)
	vias := MergeVias(raw.vias)
	destinations := MergeDestinations(raw.destinations)
	CleanupFrom(origin, vias, destinations)

	s := Statement{
		ID:               n.ID,
		Label:            n.Label,
		PrefLabel:        n.PrefLabel,
		PopulationSet:    populationSet,
		Origins:          origin,
		Vias:             vias,
		Destinations:     destinations,
		Species:          values(n, npo.HasInstanceInTaxon),
		Sex:              values(n, npo.HasBiologicalSex),
		CircuitType:      values(n, npo.HasCircuitRolePhenotype),
		CircuitRole:      values(n, npo.HasFunctionalCircuitRolePhenotype),
		Phenotype:        values(n, npo.HasAnatomicalSystemPhenotype),
		OtherPhenotypes:  values(n, npo.HasPhenotype, npo.HasMolecularPhenotype, npo.HasProjectionPhenotype),
		Provenance:       values(n, npo.LiteratureCitation),
		SentenceNumber:   values(n, npo.SentenceNumber),
		NoteAlert:        values(n, npo.AlertNote),
		StatementAlerts:  statementAlerts(n.Annotations, opts.StatementAlertURIs),
		ValidationErrors: diag,
	}
	s.ForwardConnection = forwardConnections(s, n.Values(npo.HasForwardConnectionPhenotype))
	return &s, nil
}

// IsInconsistency reports whether err rejects a single neuron rather than
// the whole batch.
func IsInconsistency(err error) bool {
	var ie *InconsistencyError
	return errors.As(err, &ie)
}

// values concatenates the objects of predicates into a fresh slice.
func values(n *Neuron, predicates ...string) []string {
	out := []string{}
	for _, p := range predicates {
		out = append(out, n.Values(p)...)
	}
	return out
}

func statementAlerts(annotations []Annotation, alertURIs map[string]struct{}) []Annotation {
	out := []Annotation{}
	for _, a := range annotations {
		if _, ok := alertURIs[a.Predicate]; ok {
			out = append(out, a)
		}
	}
	return out
}
