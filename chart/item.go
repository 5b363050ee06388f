/*
Package chart implements the chart data structures of the parser: the item
hierarchy (input, lexical and phrasal items), the chart with its span and
activity indices, derivation printing, and the unpacking of packed parse
forests.

A chart item represents a (partial) analysis of a span of the input. Items
with all argument positions filled are passive, items still waiting for
daughters are active. Ambiguity packing collapses passive items that are
equivalent under subsumption into a single representative carrying a list
of packed alternatives; the unpackers in this package recover the
individual derivations from such a forest.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package chart

import (
	"fmt"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hpsg.chart'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.chart")
}

// Blocking marks for packing.
type blockMark int8

const (
	notBlocked blockMark = iota
	frostedMark          // excluded from new derivations, still in the forest
	frozenMark           // dead, excluded from unpacking
)

// Item is a chart item. Concrete items are *InputItem, *LexItem and
// *PhrasalItem.
type Item interface {
	ID() int
	Start() int
	End() int
	Span() hpsg.Span
	SpanLen() int
	ExternalStart() int
	ExternalEnd() int
	Trait() hpsg.Trait
	Paths() hpsg.Paths
	PrintName() string

	// Activity. An item is passive when all argument positions are filled.
	Passive() bool
	LeftExtending() bool
	NextArg() int
	RestArgs() []int
	Arity() int
	NFilled() int
	SpanningOnly() bool

	// Inflection bookkeeping: an item is inflrs-complete when no
	// inflectional rules remain to be applied.
	InflrsTodo() []hpsg.TypeID
	InflrsComplete() bool

	// Rule returns the rule this item was built from; nil for input and
	// lexical items.
	Rule() *grammar.Rule

	// FS returns the item's feature structure, recreating it if it lives
	// in a stale temporary generation. Nil for input items. When packing
	// is active this is the restricted structure; for lexical items FullFS
	// returns the unrestricted one for re-unification during unpacking,
	// for phrasal items it returns the same structure as FS.
	FS() tfs.FS
	FullFS() tfs.FS

	// Cached quickcheck vectors; for active items QCUnif reflects the next
	// argument position.
	QCUnif() tfs.QC
	QCSubs() tfs.QC

	Score() float64
	SetScore(s float64)

	// The forest graph. Daughters are the items this one was built from,
	// Parents the known consumers (conservative superset), Packed the
	// items packed under this representative.
	Daughters() []Item
	Parents() []Item
	Packed() []Item
	PackItem(it Item)
	TakePackedFrom(other Item)

	// Blocking for packing.
	Blocked() bool
	Frosted() bool
	Frozen() bool

	// ResultRoot returns the root type that licensed this item as a parse
	// result, or hpsg.NoType.
	ResultRoot() hpsg.TypeID
	SetResultRoot(t hpsg.TypeID)

	// RootCheck tests whether the item is a parse result spanning a chart
	// of the given length.
	RootCheck(g grammar.Grammar, length int) (hpsg.TypeID, bool)

	// Contains reports whether needle occurs in the transitive daughters
	// of the item (or is the item itself). Used as a cycle guard by the
	// packing engine.
	Contains(needle Item) bool

	// Unpacking hooks, see unpack.go and hypothesis.go.
	unpack(ctx *unpackEnv) []Item
	hypothesizeEdge(ctx *unpackEnv, path itemPath, i int) *Hypothesis
	instantiateHypothesis(ctx *unpackEnv, path itemPath, hypo *Hypothesis) Item

	core() *itemCore
}

// itemCore carries the fields every item variant shares.
type itemCore struct {
	owner *ItemOwner

	id               int
	start, end       int
	extStart, extEnd int
	trait            hpsg.Trait
	spanningOnly     bool
	paths            hpsg.Paths
	printname        string

	fs    tfs.FS
	fsGen uint64 // 0 = permanent, else the unification generation stamp

	tofill     []int
	nfilled    int
	inflrsTodo []hpsg.TypeID

	qcUnif tfs.QC
	qcSubs tfs.QC

	score         float64
	resultRoot    hpsg.TypeID
	resultContrib bool

	daughters []Item
	parents   []Item
	packed    []Item

	blocked     blockMark
	unpackCache []Item
}

func (c *itemCore) core() *itemCore { return c }
func (c *itemCore) ID() int { return c.id }
func (c *itemCore) Start() int { return c.start }
func (c *itemCore) End() int { return c.end }
func (c *itemCore) Span() hpsg.Span { return hpsg.Span{c.start, c.end} }
func (c *itemCore) SpanLen() int { return c.end - c.start }
func (c *itemCore) ExternalStart() int { return c.extStart }
func (c *itemCore) ExternalEnd() int { return c.extEnd }
func (c *itemCore) Trait() hpsg.Trait { return c.trait }
func (c *itemCore) Paths() hpsg.Paths { return c.paths }
func (c *itemCore) PrintName() string { return c.printname }
func (c *itemCore) Passive() bool { return len(c.tofill) == 0 }
func (c *itemCore) NFilled() int { return c.nfilled }
func (c *itemCore) Arity() int { return len(c.tofill) }
func (c *itemCore) SpanningOnly() bool { return c.spanningOnly }
func (c *itemCore) InflrsTodo() []hpsg.TypeID { return c.inflrsTodo }
func (c *itemCore) InflrsComplete() bool { return len(c.inflrsTodo) == 0 }
func (c *itemCore) QCUnif() tfs.QC { return c.qcUnif }
func (c *itemCore) QCSubs() tfs.QC { return c.qcSubs }
func (c *itemCore) Score() float64 { return c.score }
func (c *itemCore) SetScore(s float64) { c.score = s }
func (c *itemCore) Daughters() []Item { return c.daughters }
func (c *itemCore) Parents() []Item { return c.parents }
func (c *itemCore) Packed() []Item { return c.packed }
func (c *itemCore) Blocked() bool { return c.blocked != notBlocked }
func (c *itemCore) Frosted() bool { return c.blocked == frostedMark }
func (c *itemCore) Frozen() bool { return c.blocked == frozenMark }
func (c *itemCore) ResultRoot() hpsg.TypeID { return c.resultRoot }

// NextArg returns the next argument position to fill, 0 for passive items.
func (c *itemCore) NextArg() int {
	if len(c.tofill) == 0 {
		return 0
	}
	return c.tofill[0]
}

// RestArgs returns the yet to fill argument positions except the current
// one.
func (c *itemCore) RestArgs() []int {
	if len(c.tofill) == 0 {
		return nil
	}
	return c.tofill[1:]
}

// LeftExtending reports whether this active item grows leftwards, i.e. its
// next argument is the first one.
func (c *itemCore) LeftExtending() bool {
	return len(c.tofill) == 0 || c.tofill[0] == 1
}

// PackItem appends it to the list of items packed under this
// representative.
func (c *itemCore) PackItem(it Item) {
	c.packed = append(c.packed, it)
}

// TakePackedFrom splices other's packed list into this item's, emptying
// other. Used by retroactive packing.
func (c *itemCore) TakePackedFrom(other Item) {
	o := other.core()
	c.packed = append(c.packed, o.packed...)
	o.packed = nil
}

func (c *itemCore) addParent(p Item) {
	c.parents = append(c.parents, p)
}

// --- Input items -----------------------------------------------------------

// InputItem is a token of the input as delivered by tokenization and
// external lexical processing. Input items live at the leaves of the chart
// only; they never combine with a rule directly but are consumed by
// lexical items.
type InputItem struct {
	itemCore
	ExternalID string
	surface    string
	stem       string
	class      hpsg.TokenClass
	posTags    []string
}

// Form returns the surface form of the token.
func (in *InputItem) Form() string { return in.surface }

// Stem returns the base form, for StemToken inputs.
func (in *InputItem) Stem() string { return in.stem }

// Class returns the token class.
func (in *InputItem) Class() hpsg.TokenClass { return in.class }

// POSTags returns the part-of-speech tags supplied with the input.
func (in *InputItem) POSTags() []string { return in.posTags }

// SetChartSpan assigns the internal chart vertices of this token after
// position computation.
func (in *InputItem) SetChartSpan(start, end int) {
	in.start, in.end = start, end
}

func (in *InputItem) Rule() *grammar.Rule { return nil }
func (in *InputItem) FS() tfs.FS { return nil }
func (in *InputItem) FullFS() tfs.FS { return nil }

// RootCheck always fails for input items.
func (in *InputItem) RootCheck(g grammar.Grammar, length int) (hpsg.TypeID, bool) {
	return hpsg.NoType, false
}

func (in *InputItem) SetResultRoot(t hpsg.TypeID) {
	in.resultContrib = true
	in.resultRoot = t
}

func (in *InputItem) Contains(needle Item) bool {
	return Item(in) == needle
}

func (in *InputItem) String() string {
	return fmt.Sprintf("[%d %d-%d input %q]", in.id, in.start, in.end, in.surface)
}

// --- Lexical items ---------------------------------------------------------

// LexItem is an item created from an input item with a corresponding
// lexicon entry. A lexical item whose stem spans several surface words is
// active until all words have been seen; ldot and rdot delimit the part of
// the orthography still open to the left resp. right.
type LexItem struct {
	itemCore
	stem        *grammar.LexEntry
	keyDaughter *InputItem
	ldot, rdot  int
	fsFull      tfs.FS
	// Registers the start resp. end vertices of extensions already
	// generated, to avoid duplicate multi-word entries.
	expanded []int

	lexHypo *Hypothesis // selective unpacking, see hypothesis.go
}

// Stem returns the lexicon entry of this item.
func (l *LexItem) Stem() *grammar.LexEntry { return l.stem }

func (l *LexItem) Rule() *grammar.Rule { return nil }

// Passive reports whether all words of the stem's orthography have been
// seen.
func (l *LexItem) Passive() bool {
	return l.ldot == 0 && l.rdot == l.stem.Length()
}

// LeftExtending reports whether the next surface word is to the left.
func (l *LexItem) LeftExtending() bool {
	return l.ldot > 0
}

// NextWordPos returns the orthography index of the next word to match.
func (l *LexItem) NextWordPos() int {
	if l.LeftExtending() {
		return l.ldot - 1
	}
	return l.rdot
}

// FS returns the restricted packing structure of the item.
func (l *LexItem) FS() tfs.FS { return l.fs }

// FullFS returns the unrestricted structure.
func (l *LexItem) FullFS() tfs.FS { return l.fsFull }

// CompatibleInput checks whether an adjacent input item can extend this
// (active) lexical item: the input's surface must match the next stem word
// and the resulting span must not have been generated before.
func (l *LexItem) CompatibleInput(inp *InputItem) bool {
	if l.stem.Orth[l.NextWordPos()] != inp.Form() {
		return false
	}
	pos := inp.End()
	if l.LeftExtending() {
		pos = inp.Start()
	}
	for _, p := range l.expanded {
		if p == pos {
			return false
		}
	}
	return true
}

// RootCheck tests lexical root compatibility (single-word sentences).
func (l *LexItem) RootCheck(g grammar.Grammar, length int) (hpsg.TypeID, bool) {
	if l.trait == hpsg.InflTrait || !l.Passive() {
		return hpsg.NoType, false
	}
	if l.start != 0 || l.end != length {
		return hpsg.NoType, false
	}
	return g.Root(l.fsFull)
}

func (l *LexItem) SetResultRoot(t hpsg.TypeID) {
	l.resultContrib = true
	l.resultRoot = t
}

func (l *LexItem) Contains(needle Item) bool {
	if Item(l) == needle {
		return true
	}
	for _, d := range l.daughters {
		if d == needle {
			return true
		}
	}
	return false
}

func (l *LexItem) String() string {
	return fmt.Sprintf("[%d %d-%d %s %s]", l.id, l.start, l.end, l.trait, l.printname)
}

// --- Phrasal items ---------------------------------------------------------

// PhrasalItem is an item built from a grammar rule and arguments. It may be
// active or passive.
type PhrasalItem struct {
	itemCore
	rule *grammar.Rule
	// The active item this item was derived from, nil for the first
	// argument.
	adaughter Item

	// Selective unpacking state, see hypothesis.go.
	decomposed  bool
	hypotheses  []*Hypothesis
	hypoAgendas map[string]*hypoAgenda
	hypoPaths   map[string][]*Hypothesis
	hypoPathMax map[string]int
}

// Rule returns the rule this item was built from.
func (p *PhrasalItem) Rule() *grammar.Rule { return p.rule }

// ActiveDaughter returns the open active item this one was derived from.
func (p *PhrasalItem) ActiveDaughter() Item { return p.adaughter }

// FS returns the item's structure, replaying the unifications that created
// it if the stored structure lives in a stale temporary generation
// (hyperactive parsing).
func (p *PhrasalItem) FS() tfs.FS {
	if p.fsGen != 0 && p.fsGen != p.owner.unifier.Generation() {
		p.recreateFS()
	}
	return p.fs
}

// FullFS is the same structure for phrasal items; only lexical items keep
// a separate unrestricted copy.
func (p *PhrasalItem) FullFS() tfs.FS { return p.FS() }

// recreateFS replays the unifications that produced this active item, in
// the rule's filling order. Only valid for active items: passive items
// keep a permanently copied structure.
func (p *PhrasalItem) recreateFS() {
	if p.Passive() {
		panic("won't rebuild passive item")
	}
	u := p.owner.unifier
	f := p.rule.Instantiate(u)
	filled := p.rule.ToFill[:p.nfilled]
	for _, argpos := range filled {
		// daughters are kept in positional order; the daughter for argpos
		// is found by its rank among the filled positions
		di := 0
		for _, fp := range filled {
			if fp < argpos {
				di++
			}
		}
		arg := u.NthArg(f, argpos)
		f = u.UnifyNP(f, arg, p.daughters[di].FS())
		if f == nil {
			panic("trouble rebuilding active item")
		}
	}
	p.fs = f
	p.fsGen = u.Generation()
}

// RootCheck returns the licensing root type if the item is phrasal, spans
// the whole chart and is compatible with one of the root types.
func (p *PhrasalItem) RootCheck(g grammar.Grammar, length int) (hpsg.TypeID, bool) {
	if p.trait == hpsg.InflTrait || !p.Passive() || !p.InflrsComplete() {
		return hpsg.NoType, false
	}
	if p.start != 0 || p.end != length {
		return hpsg.NoType, false
	}
	return g.Root(p.FS())
}

func (p *PhrasalItem) SetResultRoot(t hpsg.TypeID) {
	if !p.resultContrib {
		for _, d := range p.daughters {
			d.core().resultContrib = true
		}
		if p.adaughter != nil {
			p.adaughter.core().resultContrib = true
		}
	}
	p.resultContrib = true
	p.resultRoot = t
}

func (p *PhrasalItem) Contains(needle Item) bool {
	if Item(p) == needle {
		return true
	}
	for _, d := range p.daughters {
		if d.Contains(needle) {
			return true
		}
	}
	return false
}

func (p *PhrasalItem) String() string {
	act := ""
	if !p.Passive() {
		act = fmt.Sprintf(" tofill=%v", p.tofill)
	}
	return fmt.Sprintf("[%d %d-%d %s %s%s]", p.id, p.start, p.end, p.trait,
		p.rule.Name, act)
}

// --- Adjacency and compatibility -------------------------------------------

// Adjacent reports whether the passive item sits at the open end of the
// active item a.
func Adjacent(a Item, passive Item) bool {
	if a.LeftExtending() {
		return a.Start() == passive.End()
	}
	return a.End() == passive.Start()
}

// CompatibleWithRule performs the cheap compatibility tests of a passive
// item and a grammar rule:
//
// ▪ inflectional rules only apply to items whose next pending inflection
// rule matches the rule's type; lexical rules never apply to phrasal
// items; syntactic rules only apply to inflrs-complete items;
//
// ▪ rules that may only create items spanning the whole chart check for
// appropriate start and end positions;
//
// ▪ with shaping enabled, items at the borders of the chart do not combine
// with rules that would extend them past the border.
func CompatibleWithRule(it Item, r *grammar.Rule, length int, shaping bool) bool {
	switch r.Trait {
	case hpsg.InflTrait:
		todo := it.InflrsTodo()
		if len(todo) == 0 || todo[0] != r.Type {
			return false
		}
	case hpsg.LexTrait:
		if it.Trait() == hpsg.SyntaxTrait {
			return false
		}
	case hpsg.SyntaxTrait:
		if !it.InflrsComplete() {
			return false
		}
	}
	if r.SpanningOnly {
		if r.Arity == 1 {
			if it.SpanLen() != length {
				return false
			}
		} else if r.NextArg() == 1 {
			if it.Start() != 0 {
				return false
			}
		} else if r.NextArg() == r.Arity {
			if it.End() != length {
				return false
			}
		}
	}
	if !shaping {
		return true
	}
	if r.LeftExtending() {
		return it.End()+r.Arity-1 <= length
	}
	return it.Start()-(r.Arity-1) >= 0
}

// CompatibleWithActive performs the cheap compatibility tests of a passive
// and an active item: input items and items with pending inflection rules
// never combine with active items; spanning-only rules constrain start and
// end; in lattice mode the path sets must intersect.
func CompatibleWithActive(it Item, active Item, length int, lattice bool) bool {
	if it.Trait() == hpsg.InputTrait || !it.InflrsComplete() {
		return false
	}
	if active.SpanningOnly() {
		if active.NextArg() == 1 {
			if it.Start() != 0 {
				return false
			}
		} else if active.NextArg() == active.Arity()+active.NFilled() {
			if it.End() != length {
				return false
			}
		}
	}
	if lattice && !it.Paths().Compatible(active.Paths()) {
		return false
	}
	return true
}
