// Package export renders connectivity statements as RDF, with optional
// BFO/CCO type alignment.
package export

import (
	"fmt"
	"strings"

	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// Profile determines which ontology type assertions are included in the export.
type Profile string

const (
	// ProfileMinimal includes the npo classes and PROV-O types.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO adds BFO type assertions to the minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO adds CCO type assertions to the BFO profile.
	ProfileCCO Profile = "cco"
)

// ParseProfile parses a profile name; empty means minimal.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return ProfileMinimal, nil
	case ProfileMinimal, ProfileBFO, ProfileCCO:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported profile: %s (valid: minimal, bfo, cco)", s)
	}
}

// EntityType classifies exported entities.
type EntityType string

const (
	EntityTypeStatement EntityType = "statement"
	EntityTypeSegment   EntityType = "segment"
)

var (
	npoClassMap = map[EntityType]string{
		EntityTypeStatement: npo.ClassConnectivityStatement,
		EntityTypeSegment:   npo.ClassConnectivitySegment,
	}
	provClassMap = map[EntityType]string{
		EntityTypeStatement: vocabulary.ProvEntity,
	}
	bfoClassMap = map[EntityType]string{
		EntityTypeStatement: bfo.GenericallyDependentContinuant,
		EntityTypeSegment:   bfo.GenericallyDependentContinuant,
	}
	ccoClassMap = map[EntityType]string{
		EntityTypeStatement: cco.InformationContentEntity,
		EntityTypeSegment:   cco.InformationContentEntity,
	}
)

// TypeIRIs returns the type IRIs of an entity type under profile.
func TypeIRIs(entityType EntityType, profile Profile) []string {
	types := make([]string, 0, 4)
	for _, m := range []map[EntityType]string{npoClassMap, provClassMap} {
		if iri, ok := m[entityType]; ok {
			types = append(types, iri)
		}
	}
	if profile == ProfileBFO || profile == ProfileCCO {
		if iri, ok := bfoClassMap[entityType]; ok {
			types = append(types, iri)
		}
	}
	if profile == ProfileCCO {
		if iri, ok := ccoClassMap[entityType]; ok {
			types = append(types, iri)
		}
	}
	return types
}

// TypeTriples returns the rdf:type triples of an entity.
func TypeTriples(entityID string, entityType EntityType, profile Profile) []message.Triple {
	typeIRIs := TypeIRIs(entityType, profile)
	triples := make([]message.Triple, 0, len(typeIRIs))
	for _, typeIRI := range typeIRIs {
		triples = append(triples, message.Triple{
			Subject:    entityID,
			Predicate:  npo.StatementType,
			Object:     typeIRI,
			Source:     Source,
			Confidence: 1.0,
		})
	}
	return triples
}
