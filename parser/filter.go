package parser

import (
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
)

// filterRuleTask gates the creation of a rule-and-passive task: the rule
// filter bit must be set and the quickcheck vectors must be compatible.
func (p *Parser) filterRuleTask(r *grammar.Rule, passive chart.Item) bool {
	if p.cfg.Filter && !p.g.FilterCompatible(r, r.NextArg(), passive.Rule()) {
		p.stats.FilteredFI++
		return false
	}
	if p.cfg.NQCUnif != 0 &&
		!tfs.QCCompatibleUnif(p.g.Types(), r.QCVectorUnif(r.NextArg()), passive.QCUnif()) {
		p.stats.FilteredQC++
		return false
	}
	return true
}

// filterCombineTask gates the creation of an active-and-passive task, with
// the same checks against the active item's rule.
func (p *Parser) filterCombineTask(active *chart.PhrasalItem, passive chart.Item) bool {
	if p.cfg.Filter &&
		!p.g.FilterCompatible(active.Rule(), active.NextArg(), passive.Rule()) {
		p.stats.FilteredFI++
		return false
	}
	if p.cfg.NQCUnif != 0 &&
		!tfs.QCCompatibleUnif(p.g.Types(), active.QCUnif(), passive.QCUnif()) {
		p.stats.FilteredQC++
		return false
	}
	return true
}
