package connectivity

// walk traverses node depth-first in pre-order, classifying every concrete
// node and collecting segments into acc. from is the predecessor set handed
// to the node and depth the number of classified ancestors.
func walk(node Node, axioms Axioms, from EntitySet, depth int, acc *segments, diag *ValidationErrors) {
	entity, concrete := node.Entity()
	if !concrete {
		for _, child := range node.Children() {
			walk(child, axioms, from, depth, acc, diag)
		}
		return
	}

	role, ok := ResolveRole(axioms.Classify(entity), node.IsLeaf(), depth)
	if !ok {
		// Unmatched nodes are transparent: children inherit from and depth.
		diag.AxiomNotFound.Add(entity.String())
		for _, child := range node.Children() {
			walk(child, axioms, from, depth, acc, diag)
		}
		return
	}

	switch role {
	case RoleOrigin:
		acc.origins = append(acc.origins, Origin{Entities: NewEntitySet(entity)})
	case RoleVia:
		acc.vias = append(acc.vias, Via{
			Entities: NewEntitySet(entity),
			From:     from.Clone(),
			Order:    depth,
			Kind:     axioms.viaKind(entity),
		})
	case RoleDestination:
		acc.destinations = append(acc.destinations, Destination{
			Entities: NewEntitySet(entity),
			From:     from.Clone(),
			Kind:     axioms.destinationKind(entity),
		})
	}

	next := NewEntitySet(entity)
	for _, child := range node.Children() {
		walk(child, axioms, next, depth+1, acc, diag)
	}
}
