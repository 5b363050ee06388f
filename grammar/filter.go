package grammar

import (
	"github.com/npillmayer/hpsg/sparse"
)

// Subsumption filter bit positions.
const (
	subsForward = 1 << 0
	subsBack    = 1 << 1
)

// Filters holds the precomputed compatibility tables of a grammar: the rule
// filter (can rule d's result ever fill rule m's i-th argument?) and the
// subsumption filter (can rule a's results subsume rule b's?). Both are
// built once by trial unification resp. trial subsumption of every rule
// pair; for large grammars the tables stay a few megabytes.
//
// Concrete Grammar implementations hold a Filters value and delegate
// FilterCompatible / SubsumptionFilterCompatible to it.
type Filters struct {
	rf      *sparse.BitMatrix // mother id × daughter id → argument bitmask
	sf      *sparse.BitMatrix // a id × b id → direction bits
	enabled bool
}

// BuildFilters computes the filter tables for the rules in g. With enabled
// false, the rule filter reports every combination as admissible (the
// subsumption filter is still built; it only prunes work, never results).
func BuildFilters(g Grammar, enabled bool) *Filters {
	rules := g.Rules(AllRules)
	n := len(rules)
	u := g.Unifier()
	f := &Filters{
		rf:      sparse.NewBitMatrix(n, n),
		sf:      sparse.NewBitMatrix(n, n),
		enabled: enabled,
	}
	for _, daughter := range rules {
		scope := u.Mark()
		dfs := u.Copy(daughter.Instantiate(u))
		// Passive results have their daughter attributes deleted; trial
		// subsumption runs on the same shape to stay conservative.
		dRestr := u.Restrict(dfs, g.DeletedDaughters())
		for _, mother := range rules {
			for arg := 1; arg <= mother.Arity; arg++ {
				inner := u.Mark()
				mfs := mother.Instantiate(u)
				argfs := u.NthArg(mfs, arg)
				if argfs != nil && u.Unify(mfs, argfs, dRestr) != nil {
					f.rf.Or(int(mother.ID), int(daughter.ID), 1<<uint(arg-1))
				}
				inner.Release()
			}
			fwd, bwd := u.Subsumes(u.Restrict(mother.Instantiate(u), g.DeletedDaughters()), dRestr)
			var bits int32
			if fwd {
				bits |= subsForward
			}
			if bwd {
				bits |= subsBack
			}
			if bits != 0 {
				f.sf.Or(int(mother.ID), int(daughter.ID), bits)
			}
		}
		scope.Release()
	}
	tracer().Infof("filter tables: %d rules, %d rf entries, %d sf entries",
		n, f.rf.EntryCount(), f.sf.EntryCount())
	return f
}

// Compatible returns true if daughter's result can unify into mother's
// arg-th argument. Nil daughters (lexical items without a rule) pass.
func (f *Filters) Compatible(mother *Rule, arg int, daughter *Rule) bool {
	if !f.enabled || mother == nil || daughter == nil {
		return true
	}
	return f.rf.Bit(int(mother.ID), int(daughter.ID), uint(arg-1))
}

// SubsumptionCompatible returns the admissible subsumption directions for
// results of rules a and b. Nil rules yield (true, true).
func (f *Filters) SubsumptionCompatible(a, b *Rule) (forward, backward bool) {
	if a == nil || b == nil {
		return true, true
	}
	mask := f.sf.Mask(int(a.ID), int(b.ID))
	return mask&subsForward != 0, mask&subsBack != 0
}
