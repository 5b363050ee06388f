package parser

import (
	"fmt"

	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
)

// A task is a pending combination of chart items. Tasks are created when
// the filters admit a combination and executed when popped off the agenda.
type task interface {
	Priority() float64
	KeyVertex() int
	execute(p *Parser) chart.Item
}

// packingscore is the task priority heuristic used while building a packed
// forest: prefer completing work at the right chart edge.
func packingscore(start, end, n int, active bool) float64 {
	s := float64(end) - float64(start)/float64(n)
	if !active {
		s -= float64(start) / float64(n)
	}
	return s
}

// --- Rule + passive --------------------------------------------------------

// ruleAndPassiveTask builds a new item by instantiating a rule and
// unifying a passive item into its next argument position.
type ruleAndPassiveTask struct {
	rule    *grammar.Rule
	passive chart.Item
	prio    float64
}

func (p *Parser) newRuleAndPassiveTask(r *grammar.Rule, passive chart.Item) *ruleAndPassiveTask {
	t := &ruleAndPassiveTask{rule: r, passive: passive}
	switch {
	case p.cfg.packing():
		t.prio = packingscore(passive.Start(), passive.End(), p.chart.Rightmost(),
			r.Arity > 1)
	case p.model != nil:
		t.prio = p.model.ScoreLocalTree(r, []chart.Item{passive})
	default:
		t.prio = passive.Score()
	}
	return t
}

func (t *ruleAndPassiveTask) Priority() float64 { return t.prio }
func (t *ruleAndPassiveTask) KeyVertex() int    { return t.passive.End() }

func (t *ruleAndPassiveTask) execute(p *Parser) chart.Item {
	// The passive item may have been blocked after the task was scheduled.
	if p.cfg.packing() && t.passive.Blocked() {
		return nil
	}
	u := p.unifier
	scope := u.Mark()
	f := t.rule.Instantiate(u)
	if f == nil {
		scope.Release()
		return nil
	}
	arg := u.NthArg(f, t.rule.NextArg())
	if arg == nil {
		scope.Release()
		return nil
	}
	var res tfs.FS
	if t.rule.Arity == 1 {
		// the only argument is also the last one of a passive result
		res = u.UnifyRestrict(f, arg, t.passive.FS(), p.g.DeletedDaughters())
	} else {
		res = u.UnifyNP(f, arg, t.passive.FS())
	}
	if res == nil {
		scope.Release()
		return nil
	}
	temporary := false
	if t.rule.Arity > 1 {
		// the result is an active item
		if p.cfg.Hyper && t.rule.Hyper {
			temporary = true
		} else {
			res = u.Copy(res)
		}
	}
	it := p.owner.NewPhrasalFromRule(t.rule, t.passive, res, temporary)
	if temporary {
		scope.Release()
	} else {
		scope.Promote()
	}
	it.SetScore(t.prio)
	if it.Passive() && t.rule.SpanningOnly && it.SpanLen() != p.chart.Rightmost() {
		// the compatibility filter must have prevented this
		panic(fmt.Sprintf("spanning-only rule %s built non-spanning item %v",
			t.rule.Name, it))
	}
	return it
}

// --- Active + passive ------------------------------------------------------

// activeAndPassiveTask unifies a passive item into the next open argument
// of an active item (the fundamental rule).
type activeAndPassiveTask struct {
	active  *chart.PhrasalItem
	passive chart.Item
	prio    float64
	end     int
}

func (p *Parser) newActiveAndPassiveTask(active *chart.PhrasalItem,
	passive chart.Item) *activeAndPassiveTask {
	//
	t := &activeAndPassiveTask{active: active, passive: passive}
	start, end := combinedPositions(active, passive)
	t.end = end
	switch {
	case p.cfg.packing():
		t.prio = packingscore(start, end, p.chart.Rightmost(), true)
	case p.model != nil:
		daughters := append([]chart.Item{}, active.Daughters()...)
		if active.LeftExtending() {
			daughters = append([]chart.Item{passive}, daughters...)
		} else {
			daughters = append(daughters, passive)
		}
		t.prio = p.model.ScoreLocalTree(active.Rule(), daughters)
	default:
		t.prio = passive.Score()
	}
	return t
}

func combinedPositions(active *chart.PhrasalItem, passive chart.Item) (int, int) {
	if active.LeftExtending() {
		return passive.Start(), active.End()
	}
	return active.Start(), passive.End()
}

func (t *activeAndPassiveTask) Priority() float64 { return t.prio }
func (t *activeAndPassiveTask) KeyVertex() int    { return t.end }

func (t *activeAndPassiveTask) execute(p *Parser) chart.Item {
	// A task whose inputs became blocked after scheduling is a no-op.
	if p.cfg.packing() && (t.passive.Blocked() || t.active.Blocked()) {
		return nil
	}
	u := p.unifier
	scope := u.Mark()
	f := t.active.FS() // recreated here if it lives in a stale generation
	if !(p.cfg.Hyper && t.active.Rule().Hyper) {
		// A permanent structure must survive this combination unchanged;
		// hyperactive items are recreated per generation and may be
		// consumed destructively.
		f = u.Copy(f)
	}
	arg := u.NthArg(f, t.active.NextArg())
	if arg == nil {
		scope.Release()
		return nil
	}
	var res tfs.FS
	if t.active.Arity() == 1 {
		res = u.UnifyRestrict(f, arg, t.passive.FS(), p.g.DeletedDaughters())
	} else {
		res = u.UnifyNP(f, arg, t.passive.FS())
	}
	if res == nil {
		scope.Release()
		return nil
	}
	temporary := false
	if t.active.Arity() > 1 {
		if p.cfg.Hyper && t.active.Rule().Hyper {
			temporary = true
		} else {
			res = u.Copy(res)
		}
	}
	it := p.owner.NewPhrasalFromActive(t.active, t.passive, res, temporary)
	if temporary {
		scope.Release()
	} else {
		scope.Promote()
	}
	it.SetScore(t.prio)
	return it
}
