package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
)

// InputToken describes one token of the input as delivered by external
// tokenization; lexical processing turns tokens into the input and lexical
// items the syntactic parser starts from.
type InputToken struct {
	ID      string // external id
	Form    string // surface form
	Stem    string // base form, for StemToken
	Class   hpsg.TokenClass
	Start   int // external character positions
	End     int
	Paths   hpsg.Paths
	POSTags []string
	// InflRules are the inflectional rules morphology determined for this
	// token, outermost first.
	InflRules []hpsg.TypeID

	// StartVertex/EndVertex may pre-assign chart vertices (word lattices);
	// -1 lets position computation assign them.
	StartVertex int
	EndVertex   int
}

// NewToken creates a plain word token for sequential (string) input.
func NewToken(id int, form string, start, end int) InputToken {
	return InputToken{
		ID:          fmt.Sprintf("t%d", id),
		Form:        form,
		Class:       hpsg.WordToken,
		Start:       start,
		End:         end,
		StartVertex: -1,
		EndVertex:   -1,
	}
}

// assignChartPositions maps external token positions to dense chart
// vertices. Every distinct token start position becomes a vertex; a
// token's end vertex is the first start position at or past its external
// end, so tokens separated only by whitespace stay adjacent. Tokens
// sharing a start (lattice alternatives) share vertices; skip tokens are
// dropped. Returns the rightmost vertex.
func assignChartPositions(tokens []InputToken) ([]InputToken, int) {
	startSet := make(map[int]bool)
	for _, t := range tokens {
		if t.Class == hpsg.SkipToken {
			continue
		}
		if t.StartVertex < 0 {
			startSet[t.Start] = true
		}
	}
	starts := make([]int, 0, len(startSet))
	for p := range startSet {
		starts = append(starts, p)
	}
	sort.Ints(starts)
	vertexAfter := func(pos int) int {
		for i, s := range starts {
			if s >= pos {
				return i
			}
		}
		return len(starts)
	}
	maxpos := 0
	out := make([]InputToken, 0, len(tokens))
	for _, t := range tokens {
		if t.Class == hpsg.SkipToken {
			continue
		}
		if t.StartVertex < 0 {
			t.StartVertex = vertexAfter(t.Start)
			t.EndVertex = vertexAfter(t.End)
		}
		if t.EndVertex > maxpos {
			maxpos = t.EndVertex
		}
		out = append(out, t)
	}
	return out, maxpos
}

// lexicalProcessing deposits input items into the chart and builds lexical
// items from lexicon entries, expanding multi-word stems over adjacent
// input items. Passive lexical items are routed through addItem, which
// already creates the tasks for the syntactic stage.
func (p *Parser) lexicalProcessing(tokens []InputToken) []*hpsg.Error {
	var errors []*hpsg.Error
	inputs := make([]*chart.InputItem, 0, len(tokens))
	for _, t := range tokens {
		it := p.owner.NewInputItem(t.ID, t.StartVertex, t.EndVertex, t.Start, t.End,
			strings.ToLower(t.Form), t.Stem, t.Class, t.Paths, t.POSTags, t.InflRules)
		p.chart.Add(it)
		inputs = append(inputs, it)
	}
	for _, in := range inputs {
		n := p.lexicalEntriesFor(in)
		if n == 0 {
			tracer().Infof("no lexicon entries for %q", in.Form())
		}
	}
	return errors
}

// lexicalEntriesFor looks up the lexicon entries of one input item and
// builds the lexical items. Returns the number of passive lexical items
// deposited.
func (p *Parser) lexicalEntriesFor(in *chart.InputItem) int {
	var entries []*grammar.LexEntry
	switch {
	case in.Class() == hpsg.WordToken:
		if p.lexicon != nil {
			entries = p.lexicon.Entries(in.Form())
		}
	case in.Class() == hpsg.StemToken:
		if p.lexicon != nil {
			entries = p.lexicon.Entries(in.Stem())
		}
	case in.Class() >= 0:
		// direct lexical type supplied by the input
		entries = []*grammar.LexEntry{{
			Orth:  []string{in.Form()},
			Type:  hpsg.TypeID(in.Class()),
			Ident: in.Form(),
		}}
	}
	count := 0
	for _, entry := range entries {
		f := p.unifier.Instantiate(entry.Type)
		if f == nil {
			tracer().Errorf("cannot instantiate lexical type of %q", entry.Ident)
			continue
		}
		li := p.owner.NewLexItem(entry, in, f, in.InflrsTodo())
		count += p.expandLexItem(li)
	}
	return count
}

// expandLexItem deposits a passive lexical item, or extends an active
// (multi-word) one with adjacent input items, recursively.
func (p *Parser) expandLexItem(li *chart.LexItem) int {
	if li.Passive() {
		p.addItem(li)
		return 1
	}
	var candidates []chart.Item
	if li.LeftExtending() {
		candidates = p.chart.PassivesEndingAt(li.Start())
	} else {
		candidates = p.chart.PassivesStartingAt(li.End())
	}
	count := 0
	for _, c := range candidates {
		if inp, ok := c.(*chart.InputItem); ok && li.CompatibleInput(inp) {
			count += p.expandLexItem(p.owner.ExtendLexItem(li, inp))
		}
	}
	return count
}
