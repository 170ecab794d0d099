// Package geomlist implements the GeometryList container spec.md §4.7
// describes: an ordered, deduplicated collection of candidate Geometry
// solutions produced by a Set operation, sortable by distance to a
// reference geometry.
package geomlist

import (
	"sort"

	"hklgeo/pkg/domain"
)

// Item pairs a candidate Geometry with the pseudo-axis values it was
// produced from, mirroring spec.md's GeometryListItem.
type Item struct {
	Geometry *domain.Geometry
	Values   []float64
}

// List is an ordered collection of Items. The zero value is an empty list.
type List struct {
	items []Item
}

// New builds a List from a set of candidate axis-value vectors, each turned
// into an independent Geometry by cloning base and applying the values to
// writeAxes. Candidates whose values are rejected by AxisSet
// (should not happen for values already lifted into range, but checked
// defensively) are dropped rather than propagated as an error, matching
// spec.md's NoSolution-by-empty-list convention.
func New(base *domain.Geometry, writeAxes []string, candidates [][]float64) *List {
	l := &List{}
	for _, values := range candidates {
		g := base.Clone()
		ok := true
		for i, name := range writeAxes {
			if err := g.AxisSet(name, values[i]); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		g.Update()
		l.items = append(l.items, Item{Geometry: g, Values: append([]float64(nil), values...)})
	}
	return l
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// Items returns the list's items in current order. The returned slice
// aliases internal storage and must not be mutated by the caller.
func (l *List) Items() []Item { return l.items }

// Add appends an item.
func (l *List) Add(item Item) { l.items = append(l.items, item) }

// Deduplicate removes items whose Geometry is within epsilon (orthodromic
// distance, summed over axes) of an item already kept, per spec.md §4.7.
func (l *List) Deduplicate(epsilon float64) {
	var kept []Item
	for _, candidate := range l.items {
		duplicate := false
		for _, k := range kept {
			if candidate.Geometry.DistanceOrthodromic(k.Geometry) < epsilon {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	l.items = kept
}

// RemoveInvalid drops every item with at least one axis outside its
// validity range (accounting for rotation periodicity via IsValidRange).
func (l *List) RemoveInvalid() {
	var kept []Item
	for _, item := range l.items {
		valid := true
		for _, axis := range item.Geometry.Axes() {
			if !axis.IsValidRange() {
				valid = false
				break
			}
		}
		if valid {
			kept = append(kept, item)
		}
	}
	l.items = kept
}

// SortByDistanceTo stably reorders items by ascending orthodromic distance
// from ref, per spec.md §4.7's "closest first" contract for Set results.
func (l *List) SortByDistanceTo(ref *domain.Geometry) {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Geometry.DistanceOrthodromic(ref) < l.items[j].Geometry.DistanceOrthodromic(ref)
	})
}

// First returns the closest (index 0) item's Geometry, or nil if empty.
func (l *List) First() *domain.Geometry {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0].Geometry
}

// Geometries returns every item's Geometry, in current order.
func (l *List) Geometries() []*domain.Geometry {
	out := make([]*domain.Geometry, len(l.items))
	for i, item := range l.items {
		out[i] = item.Geometry
	}
	return out
}
