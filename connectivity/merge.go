package connectivity

import "sort"

// groups keeps insertion order so merge output follows discovery order.
type groups[T any] struct {
	index map[string]int
	items []T
}

func newGroups[T any](n int) *groups[T] {
	return &groups[T]{index: make(map[string]int, n), items: make([]T, 0, n)}
}

// get returns the group for key, creating it with init on first sight.
func (g *groups[T]) get(key string, init func() T) *T {
	i, ok := g.index[key]
	if !ok {
		i = len(g.items)
		g.index[key] = i
		g.items = append(g.items, init())
	}
	return &g.items[i]
}

// MergeOrigins unions every origin into a single aggregate.
func MergeOrigins(origins []Origin) Origin {
	merged := Origin{Entities: EntitySet{}}
	for _, o := range origins {
		merged.Entities.AddAll(o.Entities)
	}
	return merged
}

// MergeVias deduplicates vias. Vias with the same entities and kind are
// merged first, unioning predecessors; the result is then merged by kind
// and predecessors, unioning entities. Each pass keeps the highest order.
// Orders are finally renumbered densely from 0, keeping their relative
// sequence.
func MergeVias(vias []Via) []Via {
	bySuccessor := newGroups[Via](len(vias))
	for _, v := range vias {
		m := bySuccessor.get(v.Entities.Key()+"|"+string(v.Kind), func() Via {
			return Via{Entities: v.Entities.Clone(), From: EntitySet{}, Order: v.Order, Kind: v.Kind}
		})
		m.From.AddAll(v.From)
		m.Order = max(m.Order, v.Order)
	}

	byPredecessor := newGroups[Via](len(bySuccessor.items))
	for _, v := range bySuccessor.items {
		m := byPredecessor.get(string(v.Kind)+"|"+v.From.Key(), func() Via {
			return Via{Entities: EntitySet{}, From: v.From.Clone(), Order: v.Order, Kind: v.Kind}
		})
		m.Entities.AddAll(v.Entities)
		m.Order = max(m.Order, v.Order)
	}

	merged := byPredecessor.items
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Order < merged[j].Order })
	for i := range merged {
		merged[i].Order = i
	}
	return merged
}

// MergeDestinations deduplicates destinations. Destinations sharing
// predecessors are merged first, unioning entities and keeping the first
// kind seen; the result is then merged by entities and kind, unioning
// predecessors.
func MergeDestinations(destinations []Destination) []Destination {
	byPredecessor := newGroups[Destination](len(destinations))
	for _, d := range destinations {
		m := byPredecessor.get(d.From.Key(), func() Destination {
			return Destination{Entities: EntitySet{}, From: d.From.Clone(), Kind: d.Kind}
		})
		m.Entities.AddAll(d.Entities)
	}

	bySuccessor := newGroups[Destination](len(byPredecessor.items))
	for _, d := range byPredecessor.items {
		m := bySuccessor.get(d.Entities.Key()+"|"+string(d.Kind), func() Destination {
			return Destination{Entities: d.Entities.Clone(), From: EntitySet{}, Kind: d.Kind}
		})
		m.From.AddAll(d.From)
	}
	return bySuccessor.items
}
