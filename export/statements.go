package export

import (
	"fmt"
	"time"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
	"github.com/c360studio/semstreams/message"
)

// Source is stamped on every exported triple.
const Source = "sckanner.export"

// OriginID returns the entity ID of a statement's origin segment.
func OriginID(statementID string) string { return statementID + "#origin" }

// ViaID returns the entity ID of the via at order.
func ViaID(statementID string, order int) string {
	return fmt.Sprintf("%s#via-%d", statementID, order)
}

// DestinationID returns the entity ID of the i-th destination.
func DestinationID(statementID string, i int) string {
	return fmt.Sprintf("%s#destination-%d", statementID, i)
}

type tripleBuilder struct {
	now     time.Time
	triples []message.Triple
}

func (b *tripleBuilder) add(subject, predicate string, object any) {
	b.triples = append(b.triples, message.Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Source:     Source,
		Timestamp:  b.now,
		Confidence: 1.0,
	})
}

func (b *tripleBuilder) addAll(subject, predicate string, objects []string) {
	for _, o := range objects {
		b.add(subject, predicate, o)
	}
}

func (b *tripleBuilder) addEntities(subject string, entities connectivity.EntitySet) {
	for _, e := range entities.Sorted() {
		b.add(subject, npo.SegmentEntity, e.String())
		if e.IsRegionLayer() {
			b.add(subject, npo.SegmentRegion, e.Region())
			b.add(subject, npo.SegmentLayer, e.Layer())
		}
	}
}

func (b *tripleBuilder) addFrom(subject string, from connectivity.EntitySet) {
	for _, e := range from.Sorted() {
		b.add(subject, npo.SegmentFrom, e.String())
	}
}

// StatementTriples describes s and its segments as triples. snapshotID is
// recorded when not empty.
func StatementTriples(s *connectivity.Statement, snapshotID string, profile Profile, now time.Time) []message.Triple {
	b := &tripleBuilder{now: now}
	id := s.ID

	b.triples = append(b.triples, TypeTriples(id, EntityTypeStatement, profile)...)
	b.add(id, npo.StatementLabel, s.Label)
	if s.PrefLabel != "" {
		b.add(id, npo.StatementPrefLabel, s.PrefLabel)
	}
	b.add(id, npo.StatementPopulationSet, s.PopulationSet)
	b.addAll(id, npo.StatementSpecies, s.Species)
	b.addAll(id, npo.StatementSex, s.Sex)
	b.addAll(id, npo.StatementCircuitType, s.CircuitType)
	b.addAll(id, npo.StatementCircuitRole, s.CircuitRole)
	b.addAll(id, npo.StatementPhenotype, s.Phenotype)
	b.addAll(id, npo.StatementOtherPhenotype, s.OtherPhenotypes)
	b.addAll(id, npo.StatementForwardConnection, s.ForwardConnectionIDs())
	b.addAll(id, npo.StatementProvenance, s.Provenance)
	b.addAll(id, npo.StatementSentenceNumber, s.SentenceNumber)
	b.addAll(id, npo.StatementNoteAlert, s.NoteAlert)
	if s.ValidationErrors.HasErrors() {
		b.add(id, npo.StatementValidation, s.ValidationErrors.String())
	}
	if snapshotID != "" {
		b.add(id, npo.StatementSnapshot, snapshotID)
	}

	if len(s.Origins.Entities) > 0 {
		origin := OriginID(id)
		b.add(id, npo.ConnectivityOrigin, origin)
		b.triples = append(b.triples, TypeTriples(origin, EntityTypeSegment, profile)...)
		b.addEntities(origin, s.Origins.Entities)
	}

	for _, v := range s.Vias {
		via := ViaID(id, v.Order)
		b.add(id, npo.ConnectivityVia, via)
		b.triples = append(b.triples, TypeTriples(via, EntityTypeSegment, profile)...)
		b.addEntities(via, v.Entities)
		b.addFrom(via, v.From)
		b.add(via, npo.SegmentOrder, v.Order)
		b.add(via, npo.SegmentKind, string(v.Kind))
	}

	for i, d := range s.Destinations {
		dest := DestinationID(id, i)
		b.add(id, npo.ConnectivityDestination, dest)
		b.triples = append(b.triples, TypeTriples(dest, EntityTypeSegment, profile)...)
		b.addEntities(dest, d.Entities)
		b.addFrom(dest, d.From)
		b.add(dest, npo.SegmentKind, string(d.Kind))
	}

	return b.triples
}
