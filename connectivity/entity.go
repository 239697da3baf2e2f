package connectivity

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// AnatomicalEntity identifies an anatomical structure in a partial order.
// It is either a simple entity (one IRI) or a region/layer composite.
// The type is comparable and may be used as a map key.
type AnatomicalEntity struct {
	region    string
	layer     string
	composite bool
}

// SimpleEntity returns an entity identified by a single IRI.
func SimpleEntity(uri string) AnatomicalEntity {
	return AnatomicalEntity{region: uri}
}

// RegionLayerEntity returns a composite entity made of a region and a layer.
func RegionLayerEntity(region, layer string) AnatomicalEntity {
	return AnatomicalEntity{region: region, layer: layer, composite: true}
}

// IsRegionLayer reports whether e is a region/layer composite.
func (e AnatomicalEntity) IsRegionLayer() bool { return e.composite }

// URI returns the IRI of a simple entity, or the region IRI of a composite.
func (e AnatomicalEntity) URI() string { return e.region }

// Region returns the region IRI of a composite entity.
func (e AnatomicalEntity) Region() string { return e.region }

// Layer returns the layer IRI of a composite entity, or "" for a simple one.
func (e AnatomicalEntity) Layer() string { return e.layer }

// IsZero reports whether e carries no identifier at all.
func (e AnatomicalEntity) IsZero() bool { return e.region == "" && e.layer == "" }

// Keys returns the axiom lookup keys for e: the IRI of a simple entity,
// or region then layer for a composite.
func (e AnatomicalEntity) Keys() []string {
	if e.composite {
		return []string{e.region, e.layer}
	}
	return []string{e.region}
}

// String renders e for diagnostics. Composites render as
// "<region> (region), <layer> (layer)".
func (e AnatomicalEntity) String() string {
	if e.composite {
		return fmt.Sprintf("%s (region), %s (layer)", e.region, e.layer)
	}
	return e.region
}

// sortKey orders simple entities before composites, then by IRIs.
func (e AnatomicalEntity) sortKey() string {
	if e.composite {
		return "1\x1f" + e.region + "\x1f" + e.layer
	}
	return "0\x1f" + e.region
}

type regionLayerJSON struct {
	Region string `json:"region"`
	Layer  string `json:"layer"`
}

// MarshalJSON encodes a simple entity as a string and a composite as
// {"region": ..., "layer": ...}.
func (e AnatomicalEntity) MarshalJSON() ([]byte, error) {
	if e.composite {
		return json.Marshal(regionLayerJSON{Region: e.region, Layer: e.layer})
	}
	return json.Marshal(e.region)
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (e *AnatomicalEntity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var rl regionLayerJSON
		if err := json.Unmarshal(data, &rl); err != nil {
			return fmt.Errorf("decode region/layer entity: %w", err)
		}
		if rl.Region == "" || rl.Layer == "" {
			return fmt.Errorf("region/layer entity requires both region and layer: %s", data)
		}
		*e = RegionLayerEntity(rl.Region, rl.Layer)
		return nil
	}
	var uri string
	if err := json.Unmarshal(data, &uri); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	if uri == "" {
		return fmt.Errorf("entity IRI is empty")
	}
	*e = SimpleEntity(uri)
	return nil
}

// EntitySet is an unordered set of anatomical entities.
// A nil EntitySet is a valid empty set for reads.
type EntitySet map[AnatomicalEntity]struct{}

// NewEntitySet returns a set holding the given entities.
func NewEntitySet(entities ...AnatomicalEntity) EntitySet {
	s := make(EntitySet, len(entities))
	for _, e := range entities {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e into the set.
func (s EntitySet) Add(e AnatomicalEntity) { s[e] = struct{}{} }

// AddAll inserts every member of other into the set.
func (s EntitySet) AddAll(other EntitySet) {
	for e := range other {
		s[e] = struct{}{}
	}
}

// Contains reports whether e is a member.
func (s EntitySet) Contains(e AnatomicalEntity) bool {
	_, ok := s[e]
	return ok
}

// Clone returns an independent copy; the copy of a nil set is empty, not nil.
func (s EntitySet) Clone() EntitySet {
	out := make(EntitySet, len(s))
	out.AddAll(s)
	return out
}

// Union returns a new set with the members of s and other.
func (s EntitySet) Union(other EntitySet) EntitySet {
	out := s.Clone()
	out.AddAll(other)
	return out
}

// Equal reports whether both sets hold exactly the same members.
func (s EntitySet) Equal(other EntitySet) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// Sorted returns the members in a deterministic order.
func (s EntitySet) Sorted() []AnatomicalEntity {
	out := make([]AnatomicalEntity, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].sortKey() < out[j].sortKey() })
	return out
}

// Key returns a canonical string that is equal for equal sets.
// It is used as the grouping key when merging segments.
func (s EntitySet) Key() string {
	members := s.Sorted()
	parts := make([]string, len(members))
	for i, e := range members {
		parts[i] = e.sortKey()
	}
	return strings.Join(parts, "\x1e")
}

// MarshalJSON encodes the set as a sorted array.
func (s EntitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of entities.
func (s *EntitySet) UnmarshalJSON(data []byte) error {
	var members []AnatomicalEntity
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewEntitySet(members...)
	return nil
}
