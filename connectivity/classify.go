package connectivity

// Classify returns every role the axioms allow for e. A composite qualifies
// for a role when either its region or its layer is declared for it.
func (a Axioms) Classify(e AnatomicalEntity) RoleSet {
	var roles RoleSet
	for _, key := range e.Keys() {
		if _, ok := a.Origins[key]; ok {
			roles = roles.With(RoleOrigin)
		}
		if _, ok := a.Vias[key]; ok {
			roles = roles.With(RoleVia)
		}
		if _, ok := a.Destinations[key]; ok {
			roles = roles.With(RoleDestination)
		}
	}
	return roles
}

// ResolveRole picks one role out of matched using the node position.
// A leaf is most likely a destination, a node at depth 0 an origin and
// anything else a via. When the likely role was not matched the first of
// origin, via, destination present in matched wins. ok is false when
// matched is empty.
func ResolveRole(matched RoleSet, leaf bool, depth int) (role Role, ok bool) {
	likely := RoleVia
	switch {
	case leaf:
		likely = RoleDestination
	case depth == 0:
		likely = RoleOrigin
	}
	if matched.Has(likely) {
		return likely, true
	}
	for _, r := range rolePriority {
		if matched.Has(r) {
			return r, true
		}
	}
	return 0, false
}

// viaKind looks the kind up by layer first, then region.
func (a Axioms) viaKind(e AnatomicalEntity) ViaKind {
	if e.IsRegionLayer() {
		if k, ok := a.Vias[e.Layer()]; ok {
			return k
		}
	}
	return a.Vias[e.Region()]
}

// destinationKind looks the kind up by layer first, then region.
func (a Axioms) destinationKind(e AnatomicalEntity) DestinationKind {
	if e.IsRegionLayer() {
		if k, ok := a.Destinations[e.Layer()]; ok {
			return k
		}
	}
	return a.Destinations[e.Region()]
}
