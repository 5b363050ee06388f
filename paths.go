package hpsg

import "sort"

// Paths is the set of word-graph paths an item belongs to when the input is
// a lattice of alternative token sequences. The zero value is unrestricted,
// i.e. the item lies on every path; this is the common case for linear
// (string) input.
type Paths struct {
	ids []int // sorted; nil = all paths
}

// NewPaths creates a path set from the given path ids.
func NewPaths(ids ...int) Paths {
	if len(ids) == 0 {
		return Paths{}
	}
	c := make([]int, len(ids))
	copy(c, ids)
	sort.Ints(c)
	return Paths{ids: c}
}

// All returns true if the set is unrestricted.
func (p Paths) All() bool {
	return p.ids == nil
}

// IDs returns the path ids, nil for an unrestricted set.
func (p Paths) IDs() []int {
	return p.ids
}

// Compatible returns true if the two path sets intersect. An unrestricted
// set is compatible with everything.
func (p Paths) Compatible(q Paths) bool {
	if p.ids == nil || q.ids == nil {
		return true
	}
	i, j := 0, 0
	for i < len(p.ids) && j < len(q.ids) {
		switch {
		case p.ids[i] == q.ids[j]:
			return true
		case p.ids[i] < q.ids[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Common returns the intersection of the two path sets.
func (p Paths) Common(q Paths) Paths {
	if p.ids == nil {
		return q
	}
	if q.ids == nil {
		return p
	}
	var both []int
	i, j := 0, 0
	for i < len(p.ids) && j < len(q.ids) {
		switch {
		case p.ids[i] == q.ids[j]:
			both = append(both, p.ids[i])
			i++
			j++
		case p.ids[i] < q.ids[j]:
			i++
		default:
			j++
		}
	}
	return Paths{ids: both}
}
