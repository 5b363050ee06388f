/*
Package parser implements the agenda-driven parsing loop: postulation of
rule applications, the fundamental rule, ambiguity packing, resource
accounting, and the collection of readings from the forest.

The top-level entry point is Analyze. The parser consumes a grammar through
the capability interfaces of package grammar and a unifier through package
tfs; it never inspects feature structures itself.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/agenda"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'hpsg.parse'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.parse")
}

// Grammar is the grammar capability the parser consumes: the rule and
// filter interface of package grammar, plus an optional stochastic model
// for scoring.
type Grammar interface {
	grammar.Grammar

	// StochasticModel returns the scoring model, nil if none is loaded.
	StochasticModel() chart.ScoringModel
}

// Parser holds the state of one parse.
type Parser struct {
	g         Grammar
	lexicon   grammar.Lexicon
	cfg       Config
	unifier   tfs.Unifier
	model     chart.ScoringModel
	owner     *chart.ItemOwner
	chart     *chart.Chart
	agenda    agenda.Agenda
	resources *hpsg.Resources
	stats     *Stats
}

// Analyze is the main entry point: it runs lexical processing, the parse
// loop and unpacking over the given tokens and returns the chart, the
// per-parse statistics and the list of errors. A fatal error (an
// unresolvable rule argument order, or input without parseable tokens)
// comes with an empty chart. An empty token list yields an empty chart
// with no errors.
//
// A non-empty readings list may be accompanied by a recoverable
// ResourceExhausted error; the error does not invalidate the readings.
func Analyze(g Grammar, lexicon grammar.Lexicon, tokens []InputToken,
	cfg Config, id int) (*chart.Chart, *Stats, []*hpsg.Error) {
	//
	stats := newStats(id)
	var errors []*hpsg.Error
	if len(tokens) == 0 {
		owner := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
		return chart.New(0, owner), stats, errors
	}
	for _, r := range g.Rules(grammar.AllRules) {
		if r.Arity < 1 || r.NextArg() < 1 || r.NextArg() > r.Arity {
			errors = append(errors,
				hpsg.RuleInvariantError("rule %s: unresolvable argument order", r.Name))
			owner := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
			return chart.New(0, owner), stats, errors
		}
	}
	tokens, maxpos := assignChartPositions(tokens)
	if maxpos == 0 {
		errors = append(errors, hpsg.InputError("no parseable tokens in input"))
		owner := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
		return chart.New(0, owner), stats, errors
	}

	model := g.StochasticModel()
	owner := chart.NewItemOwner(g.Unifier(), g.PackingRestrictor(), cfg.packing(),
		cfg.NQCUnif > 0, cfg.NQCSubs > 0, model)
	resources := hpsg.NewResources(cfg.Timeout, cfg.MemLimit, cfg.PEdgeLimit)

	p := &Parser{
		g:         g,
		lexicon:   lexicon,
		cfg:       cfg,
		unifier:   g.Unifier(),
		model:     model,
		owner:     owner,
		chart:     chart.New(maxpos, owner),
		resources: resources,
		stats:     stats,
	}
	if cfg.ChartPruning > 0 {
		p.agenda = agenda.NewLocalCap(cfg.ChartPruning, maxpos)
	} else {
		p.agenda = agenda.NewExhaustive()
	}
	if sp, ok := p.unifier.(tfs.StatsProvider); ok {
		sp.ResetStats()
	}

	resources.StartRun() // lexical stage
	errors = append(errors, p.lexicalProcessing(tokens)...)
	// Edges built during lexical processing are not counted against the
	// passive edge limit.
	resources.PEdges = 0

	resources.StartNextStage() // parsing stage
	p.parseLoop()
	if resources.Exhausted() {
		errors = append(errors, hpsg.ExhaustedError(resources.ExhaustionMessage()))
	}
	stats.TCPU = resources.StageTime()

	resources.StartNextStage() // unpacking stage
	errors = append(errors, p.collectReadings()...)
	stats.UnpackCPU = resources.StageTime()
	resources.StopRun()
	stats.Total = resources.TotalTime()

	p.finishStats()
	if len(p.chart.Readings()) == 0 && !p.lexicallyConnected() {
		errors = append(errors, hpsg.NoReadingsDiag("lexical gap in input"))
	}
	tracer().Infof("parse %d: %d readings, %d trees, %d pedges",
		id, stats.Readings, stats.Trees, stats.PEdges)
	return p.chart, stats, errors
}

// parseLoop runs the core parser loop until either the agenda empties out,
// a resource limit fires, or (non-packing best-first mode) the number of
// trees found equals the number of requested solutions.
func (p *Parser) parseLoop() {
	for !p.agenda.Empty() && !p.resources.Exhausted() {
		t := p.agenda.Pop().(task)
		it := t.execute(p)
		p.stats.ExecutedTasks++
		if it != nil {
			p.stats.SucceededTasks++
			// addItem checks all limits that have to do with the number of
			// analyses
			if p.addItem(it) {
				break
			}
		}
	}
}

// resultLimits returns true if parsing should be stopped because enough
// results have been found. Packing with unpacking implies exhaustive
// parsing regardless of NSolutions.
func (p *Parser) resultLimits() bool {
	if p.cfg.Packing&PackNoUnpack != 0 && p.stats.Trees > 0 {
		return true
	}
	if !p.cfg.packing() && p.cfg.NSolutions != 0 && p.stats.Trees >= p.cfg.NSolutions {
		return true
	}
	return false
}

// addItem routes a freshly built item into the chart: packing for passive
// items, root check, postulation and the fundamental rule. Returns true
// when the result limits are reached.
func (p *Parser) addItem(it chart.Item) bool {
	tracer().Debugf("add_item %v", it)
	if it.Passive() {
		p.resources.PEdges++
		if p.cfg.packing() && p.packedEdge(it) {
			return false
		}
		p.chart.Add(it)
		if root, ok := it.RootCheck(p.g, p.chart.Rightmost()); ok {
			it.SetResultRoot(root)
			p.chart.AddTree(it)
			p.stats.Trees++
			if p.stats.FirstTree < 0 {
				p.stats.FirstTree = p.resources.StageTime()
			}
			if p.resultLimits() {
				return true
			}
		}
		p.postulate(it)
		p.fundamentalForPassive(it)
	} else {
		p.chart.Add(it)
		p.fundamentalForActive(it.(*chart.PhrasalItem))
	}
	return false
}

// postulate adds all tasks to the agenda that try to combine the passive
// item with a suitable rule.
func (p *Parser) postulate(passive chart.Item) {
	for _, r := range p.g.Rules(grammar.AllRules) {
		if chart.CompatibleWithRule(passive, r, p.chart.Rightmost(), p.cfg.Shaping) {
			if p.filterRuleTask(r, passive) {
				p.agenda.Push(p.newRuleAndPassiveTask(r, passive))
			}
		}
	}
}

// fundamentalForPassive tries to combine a passive item with all adjacent
// active items.
func (p *Parser) fundamentalForPassive(passive chart.Item) {
	for _, a := range p.chart.AdjacentActives(passive) {
		active := a.(*chart.PhrasalItem)
		if !chart.Adjacent(active, passive) {
			continue
		}
		if !chart.CompatibleWithActive(passive, active, p.chart.Rightmost(), p.cfg.Lattice) {
			continue
		}
		if p.filterCombineTask(active, passive) {
			p.agenda.Push(p.newActiveAndPassiveTask(active, passive))
		}
	}
}

// fundamentalForActive tries to combine an active item with all adjacent
// passive items.
func (p *Parser) fundamentalForActive(active *chart.PhrasalItem) {
	for _, passive := range p.chart.AdjacentPassives(active) {
		if passive.Blocked() {
			continue
		}
		if !chart.CompatibleWithActive(passive, active, p.chart.Rightmost(), p.cfg.Lattice) {
			continue
		}
		if p.filterCombineTask(active, passive) {
			p.agenda.Push(p.newActiveAndPassiveTask(active, passive))
		}
	}
}

// collectReadings extracts the final readings from the forest, unpacking
// if packing was active.
func (p *Parser) collectReadings() []*hpsg.Error {
	var errors []*hpsg.Error
	var readings []chart.Item
	pedges := p.resources.PEdges
	if p.cfg.packing() && p.cfg.Packing&PackNoUnpack == 0 {
		// recount the trees, some may be blocked or fail to unpack
		p.stats.Trees = 0
		for _, tree := range p.chart.Trees() {
			if !tree.Blocked() {
				p.stats.Trees++
			}
		}
		var ustats chart.UnpackStats
		if p.cfg.Packing&PackSelective != 0 && p.cfg.NSolutions > 0 && p.model != nil {
			readings, ustats = chart.SelectivelyUnpack(p.chart.Trees(), p.cfg.NSolutions,
				p.chart.Rightmost(), p.g, p.model, p.cfg.GPLevel, p.resources)
		} else {
			readings, ustats = chart.UnpackExhaustively(p.chart.Trees(),
				p.chart.Rightmost(), p.g, p.model, p.resources)
		}
		if ustats.Exhausted || p.resources.Exhausted() {
			errors = append(errors, hpsg.ExhaustedError(p.resources.ExhaustionMessage()))
		}
		p.stats.PFailures += ustats.Failures
		p.stats.PHypotheses += ustats.Hypotheses
		p.stats.PUpedges = p.resources.PEdges - pedges
	} else {
		readings = p.chart.Trees()
	}
	if p.model != nil {
		slices.SortStableFunc(readings, func(a, b chart.Item) int {
			switch {
			case a.Score() > b.Score():
				return -1
			case a.Score() < b.Score():
				return 1
			}
			return 0
		})
	}
	p.chart.SetReadings(readings)
	p.stats.Readings = len(readings)
	return errors
}

// lexicallyConnected checks whether unblocked, inflrs-complete lexical
// material covers the chart from the first to the last vertex. Where it
// does not, the input has a lexical gap.
func (p *Parser) lexicallyConnected() bool {
	return p.chart.Connected(func(it chart.Item) bool {
		return it.Trait() != hpsg.InputTrait && !it.Blocked() && it.InflrsComplete()
	})
}

// finishStats merges the chart and unifier statistics into the per-parse
// statistics.
func (p *Parser) finishStats() {
	cs := p.chart.GetStatistics()
	p.stats.PEdges = cs.PEdges
	p.stats.AEdges = cs.AEdges
	p.stats.MEdges = cs.MEdges
	p.stats.RPEdges = cs.RPEdges
	p.stats.RAEdges = cs.RAEdges
	if sp, ok := p.unifier.(tfs.StatsProvider); ok {
		p.stats.Unifications = sp.Stats()
	}
}

// PartialResults returns a best-effort fragment path through the chart,
// used by callers when no complete reading was found.
func PartialResults(c *chart.Chart) []chart.Item {
	return c.ShortestPath(func(it chart.Item) bool {
		return it.Trait() != hpsg.InputTrait && !it.Blocked() && it.InflrsComplete()
	})
}
