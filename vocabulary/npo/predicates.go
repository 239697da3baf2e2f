package npo

import "github.com/c360studio/semstreams/vocabulary"

// Statement predicates describe one normalized connectivity statement.
const (
	// StatementType identifies the entity as a connectivity statement.
	StatementType = "npo.statement.type"

	// StatementLabel is the rdfs:label of the neuron.
	StatementLabel = "npo.statement.label"

	// StatementPrefLabel is the preferred label of the neuron.
	StatementPrefLabel = "npo.statement.pref_label"

	// StatementPopulationSet names the population set the neuron belongs to.
	StatementPopulationSet = "npo.statement.population_set"

	// StatementSpecies lists taxon IRIs.
	StatementSpecies = "npo.statement.species"

	// StatementSex lists biological sex IRIs.
	StatementSex = "npo.statement.sex"

	// StatementCircuitType lists circuit role phenotype IRIs.
	StatementCircuitType = "npo.statement.circuit_type"

	// StatementCircuitRole lists functional circuit role IRIs.
	StatementCircuitRole = "npo.statement.circuit_role"

	// StatementPhenotype lists anatomical system phenotype IRIs.
	StatementPhenotype = "npo.statement.phenotype"

	// StatementOtherPhenotype lists generic, molecular and projection phenotypes.
	StatementOtherPhenotype = "npo.statement.other_phenotype"

	// StatementForwardConnection links to statements this one continues into.
	StatementForwardConnection = "npo.statement.forward_connection"

	// StatementProvenance lists literature citations.
	StatementProvenance = "npo.statement.provenance"

	// StatementSentenceNumber lists the source sentence numbers.
	StatementSentenceNumber = "npo.statement.sentence_number"

	// StatementNoteAlert carries curator alert notes.
	StatementNoteAlert = "npo.statement.note_alert"

	// StatementValidation is the rendered validation summary.
	// Values: "No validation errors." or a "; " joined list
	StatementValidation = "npo.statement.validation"

	// StatementSnapshot is the ID of the snapshot that stored the statement.
	StatementSnapshot = "npo.statement.snapshot"
)

// Connectivity predicates link a statement to its segments.
const (
	// ConnectivityOrigin links a statement to its origin segment.
	ConnectivityOrigin = "npo.connectivity.origin"

	// ConnectivityVia links a statement to a via segment.
	ConnectivityVia = "npo.connectivity.via"

	// ConnectivityDestination links a statement to a destination segment.
	ConnectivityDestination = "npo.connectivity.destination"
)

// Segment predicates describe one origin, via or destination.
const (
	// SegmentEntity is a simple anatomical entity IRI in the segment.
	SegmentEntity = "npo.segment.entity"

	// SegmentRegion is the region IRI of a region/layer entity.
	SegmentRegion = "npo.segment.region"

	// SegmentLayer is the layer IRI of a region/layer entity.
	SegmentLayer = "npo.segment.layer"

	// SegmentFrom is an explicit predecessor entity IRI.
	SegmentFrom = "npo.segment.from"

	// SegmentOrder is the dense zero-based position of a via.
	SegmentOrder = "npo.segment.order"

	// SegmentKind is the via or destination kind.
	// Values: AXON, DENDRITE, AXON-T, AFFERENT-T
	SegmentKind = "npo.segment.kind"
)

func init() {
	vocabulary.Register(StatementType,
		vocabulary.WithDescription("Entity type marker for connectivity statements"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"))

	vocabulary.Register(StatementLabel,
		vocabulary.WithDescription("Neuron label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RdfsLabel))

	vocabulary.Register(StatementPrefLabel,
		vocabulary.WithDescription("Neuron preferred label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SkosPrefLabel))

	vocabulary.Register(StatementPopulationSet,
		vocabulary.WithDescription("Population set the neuron belongs to"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"populationSet"))

	vocabulary.Register(StatementSpecies,
		vocabulary.WithDescription("Taxa the neuron is observed in"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasInstanceInTaxon))

	vocabulary.Register(StatementSex,
		vocabulary.WithDescription("Biological sex of the observed neuron"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasBiologicalSex))

	vocabulary.Register(StatementCircuitType,
		vocabulary.WithDescription("Circuit role phenotype"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasCircuitRolePhenotype))

	vocabulary.Register(StatementCircuitRole,
		vocabulary.WithDescription("Functional circuit role phenotype"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasFunctionalCircuitRolePhenotype))

	vocabulary.Register(StatementPhenotype,
		vocabulary.WithDescription("Anatomical system phenotype"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasAnatomicalSystemPhenotype))

	vocabulary.Register(StatementOtherPhenotype,
		vocabulary.WithDescription("Generic, molecular and projection phenotypes"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(HasPhenotype))

	vocabulary.Register(StatementForwardConnection,
		vocabulary.WithDescription("Statements this connectivity continues into"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(HasForwardConnectionPhenotype))

	vocabulary.Register(StatementProvenance,
		vocabulary.WithDescription("Literature citations backing the statement"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(ProvWasDerivedFrom))

	vocabulary.Register(StatementSentenceNumber,
		vocabulary.WithDescription("Source sentence numbers"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(SentenceNumber))

	vocabulary.Register(StatementNoteAlert,
		vocabulary.WithDescription("Curator alert notes"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(AlertNote))

	vocabulary.Register(StatementValidation,
		vocabulary.WithDescription("Rendered validation summary of the normalization"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"validation"))

	vocabulary.Register(StatementSnapshot,
		vocabulary.WithDescription("Snapshot that stored the statement"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"snapshot"))

	vocabulary.Register(ConnectivityOrigin,
		vocabulary.WithDescription("Origin segment of the statement"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(HasSomaLocatedIn))

	vocabulary.Register(ConnectivityVia,
		vocabulary.WithDescription("Via segment of the statement"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(HasAxonLocatedIn))

	vocabulary.Register(ConnectivityDestination,
		vocabulary.WithDescription("Destination segment of the statement"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(HasAxonPresynapticElementIn))

	vocabulary.Register(SegmentEntity,
		vocabulary.WithDescription("Anatomical entity in the segment"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"anatomicalEntity"))

	vocabulary.Register(SegmentRegion,
		vocabulary.WithDescription("Region of a region/layer entity"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"region"))

	vocabulary.Register(SegmentLayer,
		vocabulary.WithDescription("Layer of a region/layer entity"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"layer"))

	vocabulary.Register(SegmentFrom,
		vocabulary.WithDescription("Explicit predecessor entity of the segment"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"from"))

	vocabulary.Register(SegmentOrder,
		vocabulary.WithDescription("Zero-based position of a via segment"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(OntologyNamespace+"order"))

	vocabulary.Register(SegmentKind,
		vocabulary.WithDescription("Segment kind: AXON, DENDRITE, AXON-T, AFFERENT-T"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntologyNamespace+"kind"))
}
