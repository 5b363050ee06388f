package parser

import (
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/tfs"
)

// packedEdge decides whether a new passive item is absorbed into the
// packed forest instead of entering the chart. For every passive item with
// the same span it applies, in order: the rule-pair subsumption filter,
// the subsumption quickcheck, and full subsumption under the remaining
// direction mask. Depending on the direction and the configured mode the
// new item is packed under the old one (equivalence/proactive), or the old
// item and its packed alternatives move under the new one (retroactive),
// frosting the old item and freezing its consumers.
//
// Returns true if the new item was packed and must not be added to the
// chart.
func (p *Parser) packedEdge(newitem chart.Item) bool {
	if !newitem.InflrsComplete() {
		return false
	}
	for _, olditem := range p.chart.PassivesSpanning(newitem.Start(), newitem.End()) {
		if !olditem.InflrsComplete() || olditem.Trait() == hpsg.InputTrait {
			continue
		}
		// avoid packing an item with its own offspring
		if newitem.Contains(olditem) {
			continue
		}
		forward, backward := p.g.SubsumptionFilterCompatible(olditem.Rule(), newitem.Rule())
		if !forward && !backward {
			p.stats.FSubsFI++
			continue
		}
		if p.cfg.NQCSubs != 0 {
			forward, backward = tfs.QCCompatibleSubs(p.g.Types(),
				olditem.QCSubs(), newitem.QCSubs(), forward, backward)
			if !forward && !backward {
				p.stats.FSubsQC++
				continue
			}
		}
		f, b := p.unifier.Subsumes(olditem.FS(), newitem.FS())
		forward = forward && f
		backward = backward && b

		if forward && !olditem.Blocked() {
			if (!backward && p.cfg.Packing&PackProactive != 0) ||
				(backward && p.cfg.Packing&PackEquivalence != 0) {
				if backward {
					tracer().Debugf("proactive (equi) packing: %v --> %v", newitem, olditem)
					p.stats.PEquivalent++
				} else {
					tracer().Debugf("proactive (subs) packing: %v --> %v", newitem, olditem)
					p.stats.PProactive++
				}
				olditem.PackItem(newitem)
				return true
			}
		}

		if backward && p.cfg.Packing&PackRetroactive != 0 && !olditem.Frosted() {
			tracer().Debugf("retroactive packing: %v <- %v", newitem, olditem)
			newitem.TakePackedFrom(olditem)
			if !olditem.Blocked() {
				p.stats.PRetroactive++
				newitem.PackItem(olditem)
			}
			p.stats.PFrozen += chart.Frost(olditem)
		}
	}
	return false
}
