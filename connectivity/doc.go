// Package connectivity normalizes a neuron's partial order into a
// connectivity statement.
//
// A partial order is a tree of anatomical entities, possibly fanning out
// through branch markers. Each concrete node is classified as an origin, a
// via or a destination by matching it against the roles the neuron's axioms
// declare, using its position to break ties:
//
//	leaf          -> destination
//	depth 0       -> origin
//	anything else -> via
//
// Walking the tree yields raw segments that are validated against the
// axioms, merged into unique hops and stripped of predecessor links that
// only repeat the previous hop.
//
// Everything here is pure: Normalize reads its input, allocates fresh
// values and never performs I/O, so neurons may be normalized concurrently.
package connectivity
