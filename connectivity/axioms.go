package connectivity

import "github.com/MetaCell/sckan-explorer/vocabulary/npo"

// Role is the part an entity plays in a connectivity statement.
type Role int

const (
	RoleOrigin Role = iota + 1
	RoleVia
	RoleDestination
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleOrigin:
		return "origin"
	case RoleVia:
		return "via"
	case RoleDestination:
		return "destination"
	default:
		return "unknown"
	}
}

// rolePriority is the fallback order used when the positional guess does
// not match any axiom.
var rolePriority = []Role{RoleOrigin, RoleVia, RoleDestination}

// RoleSet is a set of roles.
type RoleSet uint8

// With returns s with r added.
func (s RoleSet) With(r Role) RoleSet { return s | 1<<uint(r) }

// Has reports whether r is in s.
func (s RoleSet) Has(r Role) bool { return s&(1<<uint(r)) != 0 }

// Empty reports whether s holds no role.
func (s RoleSet) Empty() bool { return s == 0 }

// ViaKind is the axiom-declared subtype of a via.
type ViaKind string

const (
	ViaAxon     ViaKind = "AXON"
	ViaDendrite ViaKind = "DENDRITE"
)

// DestinationKind is the axiom-declared subtype of a destination.
type DestinationKind string

const (
	DestinationAxonTerminal     DestinationKind = "AXON-T"
	DestinationAfferentTerminal DestinationKind = "AFFERENT-T"
)

// viaPredicates and destinationPredicates are applied in order; when an IRI
// appears under several predicates the later kind wins.
var viaPredicates = []struct {
	predicate string
	kind      ViaKind
}{
	{npo.HasAxonLocatedIn, ViaAxon},
	{npo.HasDendriteLocatedIn, ViaDendrite},
}

var destinationPredicates = []struct {
	predicate string
	kind      DestinationKind
}{
	{npo.HasAxonPresynapticElementIn, DestinationAxonTerminal},
	{npo.HasAxonSensorySubcellularElementIn, DestinationAfferentTerminal},
}

// Axioms holds the entity roles a neuron declares outside of its partial
// order. Keys are IRIs; a composite entity is looked up by region and layer.
type Axioms struct {
	Origins      map[string]struct{}
	Vias         map[string]ViaKind
	Destinations map[string]DestinationKind
}

// NewAxioms builds the role maps from a neuron's predicate values keyed by
// predicate IRI.
func NewAxioms(predicates map[string][]string) Axioms {
	a := Axioms{
		Origins:      make(map[string]struct{}),
		Vias:         make(map[string]ViaKind),
		Destinations: make(map[string]DestinationKind),
	}
	for _, uri := range predicates[npo.HasSomaLocatedIn] {
		a.Origins[uri] = struct{}{}
	}
	for _, p := range viaPredicates {
		for _, uri := range predicates[p.predicate] {
			a.Vias[uri] = p.kind
		}
	}
	for _, p := range destinationPredicates {
		for _, uri := range predicates[p.predicate] {
			a.Destinations[uri] = p.kind
		}
	}
	return a
}

// originURIs, viaURIs and destinationURIs return the declared keys per role.
func (a Axioms) originURIs() map[string]struct{} { return a.Origins }

func (a Axioms) viaURIs() map[string]struct{} {
	out := make(map[string]struct{}, len(a.Vias))
	for uri := range a.Vias {
		out[uri] = struct{}{}
	}
	return out
}

func (a Axioms) destinationURIs() map[string]struct{} {
	out := make(map[string]struct{}, len(a.Destinations))
	for uri := range a.Destinations {
		out[uri] = struct{}{}
	}
	return out
}
