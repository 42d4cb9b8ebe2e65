package cursor

import "sort"

// Set manages multiple cursors/selections.
// Selections are kept sorted by position and non-overlapping; no two
// cursors ever share a position. The first selection is the primary one.
type Set struct {
	selections []Selection
}

// NewSet creates a set with a single cursor at p.
func NewSet(p Position) *Set {
	return &Set{selections: []Selection{NewCursorSelection(p)}}
}

// Primary returns the primary (first) selection.
func (cs *Set) Primary() Selection {
	return cs.selections[0]
}

// All returns a copy of all selections.
func (cs *Set) All() []Selection {
	return append([]Selection(nil), cs.selections...)
}

// Count returns the number of cursors/selections.
func (cs *Set) Count() int {
	return len(cs.selections)
}

// IsMulti returns true if there are multiple selections.
func (cs *Set) IsMulti() bool {
	return len(cs.selections) > 1
}

// Add adds a selection and re-normalizes.
func (cs *Set) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
	cs.normalize()
}

// Set replaces all selections with sel.
func (cs *Set) Set(sel Selection) {
	cs.selections = append(cs.selections[:0], sel)
}

// Map replaces every selection with f(selection) and re-normalizes.
func (cs *Set) Map(f func(Selection) Selection) {
	for i, sel := range cs.selections {
		cs.selections[i] = f(sel)
	}
	cs.normalize()
}

// HasSelection returns true if any selection is non-empty.
func (cs *Set) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// normalize sorts selections and merges overlapping ones and cursors
// sharing a position.
func (cs *Set) normalize() {
	if len(cs.selections) <= 1 {
		return
	}

	sort.SliceStable(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].Start(), cs.selections[j].Start()
		if si != sj {
			return si.Before(sj)
		}
		return cs.selections[i].End().After(cs.selections[j].End())
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start().Before(last.End()) || sel.Start() == last.Start() || (sel.IsEmpty() && sel.Head == last.End()) {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}
