package connectivity

import "sort"

// Annotation is one (predicate, object) pair attached to a neuron.
type Annotation struct {
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Statement is a normalized connectivity statement.
type Statement struct {
	ID                string            `json:"id"`
	Label             string            `json:"label"`
	PrefLabel         string            `json:"pref_label"`
	PopulationSet     string            `json:"populationset"`
	Origins           Origin            `json:"origins"`
	Vias              []Via             `json:"vias"`
	Destinations      []Destination     `json:"destinations"`
	Species           []string          `json:"species"`
	Sex               []string          `json:"sex"`
	CircuitType       []string          `json:"circuit_type"`
	CircuitRole       []string          `json:"circuit_role"`
	Phenotype         []string          `json:"phenotype"`
	OtherPhenotypes   []string          `json:"other_phenotypes"`
	ForwardConnection []Statement       `json:"forward_connection"`
	Provenance        []string          `json:"provenance"`
	SentenceNumber    []string          `json:"sentence_number"`
	NoteAlert         []string          `json:"note_alert"`
	StatementAlerts   []Annotation      `json:"statement_alerts"`
	ValidationErrors  *ValidationErrors `json:"validation_errors"`
}

// ForwardConnectionIDs returns the reference keys of the forward connections.
func (s *Statement) ForwardConnectionIDs() []string {
	ids := make([]string, len(s.ForwardConnection))
	for i, fc := range s.ForwardConnection {
		ids[i] = fc.ID
	}
	return ids
}

// CleanupFrom clears the predecessor set of every via and destination whose
// predecessors are exactly the previous hop. The chain runs from the origin
// through the vias in order; destinations compare against the last via, or
// the origin when there is none.
func CleanupFrom(origin Origin, vias []Via, destinations []Destination) {
	previous := origin.Entities

	idx := make([]int, len(vias))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vias[idx[a]].Order < vias[idx[b]].Order })

	for _, i := range idx {
		if vias[i].From.Equal(previous) {
			vias[i].From = EntitySet{}
		}
		previous = vias[i].Entities
	}
	for i := range destinations {
		if destinations[i].From.Equal(previous) {
			destinations[i].From = EntitySet{}
		}
	}
}

// forwardConnections copies s once per target with the reference key
// replaced. Each copy owns its diagnostics so later changes to s do not
// leak into them.
func forwardConnections(s Statement, targets []string) []Statement {
	if len(targets) == 0 {
		return []Statement{}
	}
	s.ForwardConnection = nil
	out := make([]Statement, len(targets))
	for i, target := range targets {
		fc := s
		fc.ID = target
		fc.ValidationErrors = s.ValidationErrors.Clone()
		out[i] = fc
	}
	return out
}
