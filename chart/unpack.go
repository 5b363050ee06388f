package chart

import (
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
)

// UnpackStats are the counters collected while unpacking a forest.
type UnpackStats struct {
	Failures   int // failed re-unifications
	Hypotheses int // hypotheses built by the selective unpacker
	Exhausted  bool
}

// unpackEnv bundles what the unpackers need from the session.
type unpackEnv struct {
	g       grammar.Grammar
	u       tfs.Unifier
	model   ScoringModel
	res     *hpsg.Resources
	gplevel int
	stats   *UnpackStats
}

// UnpackExhaustively regenerates all derivations from the packed forest
// given by trees, re-unifying every configuration of packed daughters.
// Items passing the root check become readings. Unpacking stops when a
// resource limit fires; readings collected until then remain valid.
func UnpackExhaustively(trees []Item, chartLen int, g grammar.Grammar,
	model ScoringModel, res *hpsg.Resources) ([]Item, UnpackStats) {
	//
	env := &unpackEnv{g: g, u: g.Unifier(), model: model, res: res, stats: &UnpackStats{}}
	var readings []Item
	for _, tree := range trees {
		if tree.Blocked() {
			continue
		}
		if res.Exhausted() {
			env.stats.Exhausted = true
			break
		}
		for _, result := range tree.unpack(env) {
			if root, ok := result.RootCheck(g, chartLen); ok {
				result.SetResultRoot(root)
				readings = append(readings, result)
				tracer().Debugf("unpacked reading %v: %s", result, Derivation(result))
			}
		}
	}
	if res.Exhausted() {
		env.stats.Exhausted = true
	}
	return readings, *env.stats
}

// unpack returns the list of items represented by this item, unpacking the
// packed alternatives first. Results are memoised per item.
func (c *itemCore) unpackInto(env *unpackEnv, unpack1 func(*unpackEnv) []Item) []Item {
	if c.blocked == frozenMark {
		return nil
	}
	if c.unpackCache != nil {
		return c.unpackCache
	}
	if env.res.Exhausted() {
		env.stats.Exhausted = true
		return nil
	}
	var res []Item
	for _, p := range c.packed {
		res = append(res, p.unpack(env)...)
	}
	res = append(res, unpack1(env)...)
	if res == nil {
		res = []Item{} // memoise legitimate empty results, too
	}
	c.unpackCache = res
	return res
}

func (in *InputItem) unpack(env *unpackEnv) []Item {
	return in.unpackInto(env, in.unpack1)
}

func (l *LexItem) unpack(env *unpackEnv) []Item {
	return l.unpackInto(env, l.unpack1)
}

func (p *PhrasalItem) unpack(env *unpackEnv) []Item {
	return p.unpackInto(env, p.unpack1)
}

// Input items have no feature structure; unpacking does not proceed past
// lexical items.
func (in *InputItem) unpack1(env *unpackEnv) []Item {
	return []Item{in}
}

func (l *LexItem) unpack1(env *unpackEnv) []Item {
	return []Item{l}
}

// unpack1 for phrasal items considers all combinations of unpacked
// daughters and collects the ones that re-unify.
func (p *PhrasalItem) unpack1(env *unpackEnv) []Item {
	dtrs := make([][]Item, len(p.daughters))
	for i, d := range p.daughters {
		dtrs[i] = d.unpack(env)
	}
	config := make([]Item, p.rule.Arity)
	var res []Item
	p.unpackCross(env, dtrs, 0, config, &res)
	return res
}

// unpackCross recursively computes all configurations of dtrs and
// accumulates valid instantiations in res.
func (p *PhrasalItem) unpackCross(env *unpackEnv, dtrs [][]Item,
	index int, config []Item, res *[]Item) {
	//
	if env.stats.Exhausted {
		return
	}
	if index >= p.rule.Arity {
		if combined := p.unpackCombine(env, config); combined != nil {
			env.res.PEdges++
			*res = append(*res, combined)
		} else {
			env.stats.Failures++
		}
		if env.res.Exhausted() {
			env.stats.Exhausted = true
		}
		return
	}
	for _, d := range dtrs[index] {
		config[index] = d
		p.unpackCross(env, dtrs, index+1, config, res)
	}
}

// unpackCombine tries to instantiate the rule of this item with a
// particular configuration of daughters, replaying the unifications of the
// original task with the daughters' unrestricted structures.
func (p *PhrasalItem) unpackCombine(env *unpackEnv, config []Item) Item {
	u := env.u
	scope := u.Mark()
	f := p.rule.Instantiate(u)
	tofill := p.rule.ToFill
	for k, argpos := range tofill {
		if f == nil {
			break
		}
		arg := u.NthArg(f, argpos)
		if k < len(tofill)-1 {
			f = u.UnifyNP(f, arg, config[argpos-1].FullFS())
		} else {
			f = u.UnifyRestrict(f, arg, config[argpos-1].FullFS(), env.g.DeletedDaughters())
		}
	}
	if f == nil {
		scope.Release()
		return nil
	}
	scope.Promote()
	result := p.owner.NewUnpackedPhrasal(p, config, f)
	if env.model != nil {
		result.SetScore(env.model.ScoreLocalTree(result.rule, config))
	}
	return result
}
