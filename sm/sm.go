/*
Package sm implements a table-driven log-linear (maximum entropy style)
parse selection model.

A feature is a local tree (the rule and the identities of its daughters),
optionally prefixed by a grandparent context of bounded depth. The model
maps features to weights; the score of a derivation is the sum of the
weights of its local trees plus the leaf weights of its lexical items.
Reading model files from disk is outside this module: weights are fed in
programmatically.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sm

import (
	"strings"

	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
)

// MEM is a log-linear scoring model over local-tree features.
type MEM struct {
	weights map[string]float64
	leaves  map[string]float64
}

// New creates an empty model. All unknown features weigh 0.
func New() *MEM {
	return &MEM{
		weights: make(map[string]float64),
		leaves:  make(map[string]float64),
	}
}

// Weight assigns a weight to a local-tree feature, built with Feature.
func (m *MEM) Weight(feature string, w float64) *MEM {
	m.weights[feature] = w
	return m
}

// LeafWeight assigns a weight to a lexical entry, by its identifier.
func (m *MEM) LeafWeight(ident string, w float64) *MEM {
	m.leaves[ident] = w
	return m
}

// Feature builds the key of a local-tree feature: the grandparent rule
// names (outermost first, may be empty), the rule name, and the daughter
// identities.
func Feature(gp []string, rule string, daughters []string) string {
	var sb strings.Builder
	for _, g := range gp {
		sb.WriteString(g)
		sb.WriteByte('/')
	}
	sb.WriteString(rule)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(daughters, ","))
	sb.WriteByte(')')
	return sb.String()
}

// identOf names an item for feature extraction: lexical items by their
// entry, phrasal items by their rule, input items by their form.
func identOf(it chart.Item) string {
	switch t := it.(type) {
	case *chart.LexItem:
		return t.Stem().Ident
	case *chart.PhrasalItem:
		return t.Rule().Name
	case *chart.InputItem:
		return t.Form()
	}
	return "?"
}

func pathNames(path []chart.Item) []string {
	var names []string
	for _, it := range path {
		names = append(names, identOf(it))
	}
	return names
}

// ScoreLeaf yields the initial score of a lexical item.
func (m *MEM) ScoreLeaf(it chart.Item) float64 {
	if lex, ok := it.(*chart.LexItem); ok {
		return m.leaves[lex.Stem().Ident]
	}
	return 0
}

// ScoreLocalTree scores the local tree of rule r over the given daughters,
// adding the daughters' accumulated scores.
func (m *MEM) ScoreLocalTree(r *grammar.Rule, daughters []chart.Item) float64 {
	names := make([]string, len(daughters))
	for i, d := range daughters {
		names[i] = identOf(d)
	}
	s := m.weights[Feature(nil, r.Name, names)]
	for _, d := range daughters {
		s += d.Score()
	}
	return s
}

// ScoreHypothesis computes the score of a hypothesis under a grandparent
// path: the weight of the grandparented local-tree feature plus the scores
// of the sub-hypotheses under the path extended by this edge.
func (m *MEM) ScoreHypothesis(h *chart.Hypothesis, path []chart.Item, gplevel int) float64 {
	rhs := h.RHS()
	if rhs == nil { // leaf hypothesis
		return m.ScoreLeaf(h.Edge())
	}
	edge, ok := h.Edge().(*chart.PhrasalItem)
	if !ok {
		return 0
	}
	names := make([]string, len(rhs))
	for i, d := range rhs {
		names[i] = identOf(d)
	}
	s := m.weights[Feature(pathNames(path), edge.Rule().Name, names)]
	// grandparent-insensitive back-off
	if len(path) > 0 {
		s += m.weights[Feature(nil, edge.Rule().Name, names)]
	}
	newpath := chart.TrimPath(append(append([]chart.Item{}, path...), edge), gplevel)
	for _, sub := range h.SubHypotheses() {
		if v, ok := sub.ScoreFor(newpath); ok {
			s += v
		} else {
			s += m.ScoreHypothesis(sub, newpath, gplevel)
		}
	}
	return s
}
