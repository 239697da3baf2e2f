// Package npo provides vocabulary for neuron phenotype connectivity statements.
//
// Two kinds of terms live here:
//   - IRIs of the InterLex readable predicates (ilxtr) that describe a neuron
//     in the upstream ontology. The connectivity engine reads neuron axioms and
//     scalar metadata keyed by these IRIs.
//   - Dotted predicates (domain.category.property) registered with the
//     semstreams vocabulary registry. They describe normalized statements when
//     those are exported as triples.
//
// # Statement Entities
//
// A normalized statement is exported as one entity plus one entity per
// connectivity segment:
//
//	Statement: <reference uri>
//	  - npo.statement.*: labels, population set, species, sex, phenotypes
//	  - npo.connectivity.{origin,via,destination}: segment entity IDs
//	Segment: <reference uri>#origin, #via-<order>, #destination-<n>
//	  - npo.segment.entity / region / layer / from / order / kind
package npo
