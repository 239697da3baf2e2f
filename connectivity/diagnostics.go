package connectivity

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Messages of the InconsistencyErrors returned by Normalize.
const (
	MsgNoPartialOrder  = "No partial order found"
	MsgNoPopulationSet = "No population set found"
)

// ErrNoPartialOrder is returned when a neuron has an empty or absent
// partial order. The neuron is skipped; the rest of a batch is unaffected.
var ErrNoPartialOrder = errors.New("no partial order found")

// InconsistencyError rejects a single neuron.
type InconsistencyError struct {
	StatementID string
	EntityID    string
	Message     string
	Err         error
}

func (e *InconsistencyError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("statement %s: entity %s: %s", e.StatementID, e.EntityID, e.Message)
	}
	return fmt.Sprintf("statement %s: %s", e.StatementID, e.Message)
}

func (e *InconsistencyError) Unwrap() error { return e.Err }

// StringSet is a set of diagnostic strings.
type StringSet map[string]struct{}

// Add inserts s.
func (s StringSet) Add(v string) { s[v] = struct{}{} }

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of strings.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return nil
}

// ValidationErrors accumulates the diagnostics of one normalization.
// The walker adds axiom-not-found entries, the validator adds consistency
// messages, and the ingestion pipeline may add forward-connection entries.
type ValidationErrors struct {
	Entities          StringSet `json:"entities"`
	Sex               StringSet `json:"sex"`
	Species           StringSet `json:"species"`
	ForwardConnection StringSet `json:"forward_connection"`
	AxiomNotFound     StringSet `json:"axiom_not_found"`
	NonSpecified      []string  `json:"non_specified"`
}

// NewValidationErrors returns an empty accumulator.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Entities:          StringSet{},
		Sex:               StringSet{},
		Species:           StringSet{},
		ForwardConnection: StringSet{},
		AxiomNotFound:     StringSet{},
		NonSpecified:      []string{},
	}
}

// HasErrors reports whether any diagnostic was recorded.
func (v *ValidationErrors) HasErrors() bool {
	if v == nil {
		return false
	}
	return len(v.Entities) > 0 ||
		len(v.Sex) > 0 ||
		len(v.Species) > 0 ||
		len(v.ForwardConnection) > 0 ||
		len(v.AxiomNotFound) > 0 ||
		len(v.NonSpecified) > 0
}

// String renders all diagnostics joined by "; ".
func (v *ValidationErrors) String() string {
	if !v.HasErrors() {
		return "No validation errors."
	}
	var parts []string
	section := func(title string, set StringSet) {
		if len(set) > 0 {
			parts = append(parts, title+": "+strings.Join(set.Sorted(), ", "))
		}
	}
	section("Entities not found", v.Entities)
	section("Sex information not found", v.Sex)
	section("Species not found", v.Species)
	section("Forward connection(s) not found", v.ForwardConnection)
	section("Axiom(s) not found for", v.AxiomNotFound)
	parts = append(parts, v.NonSpecified...)
	return strings.Join(parts, "; ")
}

// Clone returns a deep copy.
func (v *ValidationErrors) Clone() *ValidationErrors {
	if v == nil {
		return nil
	}
	out := NewValidationErrors()
	for _, pair := range []struct{ dst, src StringSet }{
		{out.Entities, v.Entities},
		{out.Sex, v.Sex},
		{out.Species, v.Species},
		{out.ForwardConnection, v.ForwardConnection},
		{out.AxiomNotFound, v.AxiomNotFound},
	} {
		for s := range pair.src {
			pair.dst.Add(s)
		}
	}
	out.NonSpecified = append(out.NonSpecified, v.NonSpecified...)
	return out
}
