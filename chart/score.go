package chart

import (
	"github.com/npillmayer/hpsg/grammar"
)

// ScoringModel is the scoring capability of a stochastic (log-linear)
// parse-selection model. Reading model files is outside this module; the
// parser and the selective unpacker consume the scoring functions only.
//
// Models must return finite scores: the agenda rejects NaN priorities.
type ScoringModel interface {
	// ScoreLeaf yields the initial score of a lexical item.
	ScoreLeaf(it Item) float64

	// ScoreLocalTree scores the local tree of rule r over the given
	// daughters.
	ScoreLocalTree(r *grammar.Rule, daughters []Item) float64

	// ScoreHypothesis computes the score of a hypothesis under the given
	// grandparent path (a bounded-length list of ancestor items, already
	// trimmed to gplevel). The result must be deterministic in the
	// hypothesis's decomposition and the sub-hypotheses' scores along the
	// path.
	ScoreHypothesis(h *Hypothesis, path []Item, gplevel int) float64
}
