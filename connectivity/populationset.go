package connectivity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
)

// ErrNoPopulationSet is returned when no population set can be derived
// from a neuron id.
var ErrNoPopulationSet = errors.New("population set not found")

var populationSetPattern = regexp.MustCompile(`/readable/[^-]+-[^-]+-([^-/]+)`)

// PopulationSet derives the population set of a neuron from its id.
// SPARC NLP neurons carry it as the second to last path segment; other
// readable ids carry it as the third dash separated token.
func PopulationSet(id, owlClass string) (string, error) {
	if owlClass == npo.ClassNeuronSparcNlp {
		parts := strings.Split(id, "/")
		if len(parts) < 2 || parts[len(parts)-2] == "" {
			return "", fmt.Errorf("%w: %s", ErrNoPopulationSet, id)
		}
		return parts[len(parts)-2], nil
	}
	if m := populationSetPattern.FindStringSubmatch(id); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoPopulationSet, id)
}
