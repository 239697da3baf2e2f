package connectivity

import (
	"fmt"
	"sort"
)

// DefaultSourceLabel prefixes consistency messages for NeuronDM input.
const DefaultSourceLabel = "Neurondm"

// Validate cross-checks declared axioms against the discovered segments and
// appends one message per mismatch to diag.NonSpecified. For each category
// unexpected entities come first, then missing ones, each in sorted order.
func Validate(source string, axioms Axioms, origins []Origin, vias []Via, destinations []Destination, diag *ValidationErrors) {
	var originSets, viaSets, destinationSets []EntitySet
	for _, o := range origins {
		originSets = append(originSets, o.Entities)
	}
	for _, v := range vias {
		viaSets = append(viaSets, v.Entities)
	}
	for _, d := range destinations {
		destinationSets = append(destinationSets, d.Entities)
	}

	validateCategory(source, "origins", axioms.originURIs(), originSets, diag)
	validateCategory(source, "vias", axioms.viaURIs(), viaSets, diag)
	validateCategory(source, "destinations", axioms.destinationURIs(), destinationSets, diag)
}

func validateCategory(source, category string, declared map[string]struct{}, discovered []EntitySet, diag *ValidationErrors) {
	found := make(map[string]struct{})
	unexpected := StringSet{}
	for _, set := range discovered {
		for e := range set {
			expected := false
			for _, key := range e.Keys() {
				found[key] = struct{}{}
				if _, ok := declared[key]; ok {
					expected = true
				}
			}
			if expected {
				continue
			}
			if e.IsRegionLayer() {
				unexpected.Add(e.Region() + ", " + e.Layer())
			} else {
				unexpected.Add(e.URI())
			}
		}
	}

	var missing []string
	for uri := range declared {
		if _, ok := found[uri]; !ok {
			missing = append(missing, uri)
		}
	}
	sort.Strings(missing)

	for _, uri := range unexpected.Sorted() {
		diag.NonSpecified = append(diag.NonSpecified,
			fmt.Sprintf("%s: Unexpected %s URI not in axioms: %s", source, category, uri))
	}
	for _, uri := range missing {
		diag.NonSpecified = append(diag.NonSpecified,
			fmt.Sprintf("%s: Missing %s URI not found in actual URIs: %s", source, category, uri))
	}
}
