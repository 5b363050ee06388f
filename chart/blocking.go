package chart

// Frosting and freezing for packing. A frosted item is excluded from new
// derivations but still counts towards the forest; a frozen item is dead:
// it produces no further tasks and never participates in unpacking.
// Blocking an item freezes all of its known parents, since their
// derivations have become redundant.

// Frost marks the item as frosted and freezes its parents. Returns the
// number of items newly frozen.
func Frost(it Item) int {
	return block(it, frostedMark)
}

// Freeze marks the item as frozen and propagates along the parent links.
// Returns the number of items newly frozen.
func Freeze(it Item) int {
	return block(it, frozenMark)
}

func block(it Item, mark blockMark) (frozen int) {
	tracer().Debugf("%v item %v", mark, it)
	c := it.core()
	if c.blocked == notBlocked || mark == frozenMark {
		if mark == frozenMark && c.blocked != frozenMark {
			frozen++
		}
		c.blocked = mark
	}
	// Freezing must reach all transitive consumers; an explicit worklist
	// bounds the recursion depth for pathological grammars.
	work := make([]Item, len(c.parents))
	copy(work, c.parents)
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		pc := p.core()
		if pc.blocked == frozenMark {
			continue
		}
		pc.blocked = frozenMark
		frozen++
		work = append(work, pc.parents...)
	}
	return frozen
}

func (m blockMark) String() string {
	switch m {
	case frostedMark:
		return "frost"
	case frozenMark:
		return "freeze"
	}
	return "unblock"
}
