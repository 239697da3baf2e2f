package npo

// Namespace is the InterLex readable namespace used by NeuronDM.
const Namespace = "http://uri.interlex.org/tgbugs/uris/readable/"

// OntologyNamespace is the base IRI for terms minted by this vocabulary.
const OntologyNamespace = "https://sckan.metacell.us/ontology/npo/"

// Standard ontology IRI constants for mappings.
const (
	// RdfsLabel is the RDF Schema label property.
	RdfsLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	// SkosPrefLabel is the SKOS preferred label property.
	SkosPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"

	// ProvWasDerivedFrom links a statement to its literature citation.
	ProvWasDerivedFrom = "http://www.w3.org/ns/prov#wasDerivedFrom"
)

// Class IRIs.
const (
	// ClassNeuronSparcNlp is the OWL class of neurons curated from SPARC NLP
	// sentences. Their population set is taken from the id path.
	ClassNeuronSparcNlp = Namespace + "NeuronSparcNlp"

	// ClassConnectivityStatement types exported statements.
	ClassConnectivityStatement = OntologyNamespace + "ConnectivityStatement"

	// ClassConnectivitySegment types the origin, via and destination
	// segments of an exported statement.
	ClassConnectivitySegment = OntologyNamespace + "ConnectivitySegment"
)

// Axiom predicates declaring the role of anatomical entities.
const (
	HasSomaLocatedIn                   = Namespace + "hasSomaLocatedIn"
	HasAxonLocatedIn                   = Namespace + "hasAxonLocatedIn"
	HasDendriteLocatedIn               = Namespace + "hasDendriteLocatedIn"
	HasAxonPresynapticElementIn        = Namespace + "hasAxonPresynapticElementIn"
	HasAxonSensorySubcellularElementIn = Namespace + "hasAxonSensorySubcellularElementIn"
)

// Scalar metadata predicates carried into statements unchanged.
const (
	HasInstanceInTaxon                = Namespace + "hasInstanceInTaxon"
	HasBiologicalSex                  = Namespace + "hasBiologicalSex"
	HasCircuitRolePhenotype           = Namespace + "hasCircuitRolePhenotype"
	HasFunctionalCircuitRolePhenotype = Namespace + "hasFunctionalCircuitRolePhenotype"
	HasAnatomicalSystemPhenotype      = Namespace + "hasAnatomicalSystemPhenotype"
	HasPhenotype                      = Namespace + "hasPhenotype"
	HasMolecularPhenotype             = Namespace + "hasMolecularPhenotype"
	HasProjectionPhenotype            = Namespace + "hasProjectionPhenotype"
	HasForwardConnectionPhenotype     = Namespace + "hasForwardConnectionPhenotype"
	LiteratureCitation                = Namespace + "literatureCitation"
	SentenceNumber                    = Namespace + "sentenceNumber"
	AlertNote                         = Namespace + "alertNote"
)
