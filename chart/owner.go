package chart

import (
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
)

// ItemOwner owns every item created during a parse session and hands out
// the session-unique item ids. Daughter and parent links between items are
// non-owning; dropping the owner releases the whole item graph at once.
//
// The owner also carries the session context item construction needs: the
// unifier, the packing restrictor, the quickcheck configuration, and an
// optional scoring model for leaf scores.
type ItemOwner struct {
	unifier    tfs.Unifier
	restrictor []hpsg.AttrID
	packing    bool
	qcUnif     bool
	qcSubs     bool
	model      ScoringModel

	nextID int
	items  []Item
}

// NewItemOwner creates an owner for a parse session. The restrictor is the
// grammar's packing restrictor, applied to passive structures when packing
// is enabled; qcUnif/qcSubs enable the computation of cached quickcheck
// vectors; model may be nil.
func NewItemOwner(u tfs.Unifier, restrictor []hpsg.AttrID, packing, qcUnif, qcSubs bool,
	model ScoringModel) *ItemOwner {
	return &ItemOwner{
		unifier:    u,
		restrictor: restrictor,
		packing:    packing,
		qcUnif:     qcUnif,
		qcSubs:     qcSubs,
		model:      model,
		nextID:     1,
	}
}

// Unifier returns the session's unifier.
func (o *ItemOwner) Unifier() tfs.Unifier { return o.unifier }

// Items returns all items created in this session, in creation order.
func (o *ItemOwner) Items() []Item { return o.items }

func (o *ItemOwner) register(it Item) {
	it.core().id = o.nextID
	o.nextID++
	it.core().owner = o
	it.core().resultRoot = hpsg.NoType
	o.items = append(o.items, it)
}

// NewInputItem creates an input item for a token, with chart vertices
// (start, end) and external character positions (extStart, extEnd).
func (o *ItemOwner) NewInputItem(externalID string, start, end, extStart, extEnd int,
	surface, stem string, class hpsg.TokenClass, paths hpsg.Paths,
	posTags []string, inflrs []hpsg.TypeID) *InputItem {
	//
	it := &InputItem{
		ExternalID: externalID,
		surface:    surface,
		stem:       stem,
		class:      class,
		posTags:    posTags,
	}
	it.start, it.end = start, end
	it.extStart, it.extEnd = extStart, extEnd
	it.trait = hpsg.InputTrait
	it.paths = paths
	it.printname = surface
	it.inflrsTodo = inflrs
	o.register(it)
	return it
}

// NewLexItem builds a lexical item from a lexicon entry and the input item
// matching the entry's key word, together with the instantiated structure f
// and the pending inflectional rules.
func (o *ItemOwner) NewLexItem(stem *grammar.LexEntry, keyDtr *InputItem,
	f tfs.FS, inflrs []hpsg.TypeID) *LexItem {
	//
	it := &LexItem{
		stem:        stem,
		keyDaughter: keyDtr,
		ldot:        stem.KeyPos,
		rdot:        stem.KeyPos + 1,
		fsFull:      f,
	}
	it.start, it.end = keyDtr.Start(), keyDtr.End()
	it.extStart, it.extEnd = keyDtr.ExternalStart(), keyDtr.ExternalEnd()
	it.paths = keyDtr.Paths()
	it.printname = stem.Ident
	it.fs = f
	it.inflrsTodo = inflrs
	it.daughters = []Item{keyDtr}
	o.register(it)
	o.initLexItem(it, f)
	return it
}

// ExtendLexItem builds a new lexical item from an active one and a further
// input item (multi-word stems). The expansion is registered on the source
// item so duplicates are not generated.
func (o *ItemOwner) ExtendLexItem(from *LexItem, newDtr *InputItem) *LexItem {
	it := &LexItem{
		stem:        from.stem,
		keyDaughter: from.keyDaughter,
		ldot:        from.ldot,
		rdot:        from.rdot,
		fsFull:      from.fsFull,
	}
	it.paths = from.paths.Common(newDtr.Paths())
	it.printname = from.printname
	it.fs = from.fsFull
	it.inflrsTodo = from.inflrsTodo
	it.daughters = make([]Item, len(from.daughters), len(from.daughters)+1)
	copy(it.daughters, from.daughters)
	if from.LeftExtending() {
		it.start, it.extStart = newDtr.Start(), newDtr.ExternalStart()
		it.end, it.extEnd = from.End(), from.ExternalEnd()
		it.daughters = append([]Item{newDtr}, it.daughters...)
		it.ldot--
		from.expanded = append(from.expanded, it.start)
	} else {
		it.start, it.extStart = from.Start(), from.ExternalStart()
		it.end, it.extEnd = newDtr.End(), newDtr.ExternalEnd()
		it.daughters = append(it.daughters, newDtr)
		it.rdot++
		from.expanded = append(from.expanded, it.end)
	}
	o.register(it)
	o.initLexItem(it, it.fsFull)
	return it
}

// initLexItem finishes construction once all words of the stem are seen.
func (o *ItemOwner) initLexItem(it *LexItem, f tfs.FS) {
	if !it.Passive() {
		if len(it.inflrsTodo) > 0 {
			it.trait = hpsg.InflTrait
		} else {
			it.trait = hpsg.LexTrait
		}
		return
	}
	for _, d := range it.daughters {
		d.core().addParent(it)
	}
	if o.packing {
		it.fs = o.unifier.Restrict(f, o.restrictor)
	}
	if len(it.inflrsTodo) > 0 {
		it.trait = hpsg.InflTrait
	} else {
		it.trait = hpsg.LexTrait
	}
	if o.qcUnif {
		it.qcUnif = o.unifier.QCVectorUnif(f)
	}
	if o.qcSubs {
		it.qcSubs = o.unifier.QCVectorSubs(f)
	}
	if o.model != nil {
		it.score = o.model.ScoreLeaf(it)
	}
}

// NewPhrasalFromRule builds a phrasal item from the successful combination
// of a rule and a passive item, which already produced f. With temporary
// true (hyperactive scheduling of an active result) the structure is
// stamped with the current unification generation instead of being treated
// as permanent.
func (o *ItemOwner) NewPhrasalFromRule(r *grammar.Rule, passive Item, f tfs.FS,
	temporary bool) *PhrasalItem {
	//
	it := &PhrasalItem{rule: r}
	it.start, it.end = passive.Start(), passive.End()
	it.extStart, it.extEnd = passive.ExternalStart(), passive.ExternalEnd()
	it.paths = passive.Paths()
	it.printname = r.Name
	it.tofill = r.RestArgs()
	it.nfilled = 1
	it.daughters = []Item{passive}
	it.spanningOnly = r.SpanningOnly
	it.trait = r.Trait
	if it.trait == hpsg.InflTrait {
		todo := passive.InflrsTodo()
		if len(todo) > 1 {
			it.inflrsTodo = todo[1:]
		} else {
			it.trait = hpsg.LexTrait
		}
	}
	o.register(it)
	passive.core().addParent(it)
	o.finishPhrasal(it, f, temporary)
	if it.Passive() {
		r.Passives++
	} else {
		r.Actives++
	}
	return it
}

// NewPhrasalFromActive builds a phrasal item from the successful
// combination of an active and a passive item.
func (o *ItemOwner) NewPhrasalFromActive(active *PhrasalItem, passive Item, f tfs.FS,
	temporary bool) *PhrasalItem {
	//
	it := &PhrasalItem{rule: active.rule, adaughter: active}
	it.paths = active.paths.Common(passive.Paths())
	it.printname = active.printname
	it.spanningOnly = active.spanningOnly
	it.daughters = make([]Item, len(active.daughters), len(active.daughters)+1)
	copy(it.daughters, active.daughters)
	if active.LeftExtending() {
		it.start, it.extStart = passive.Start(), passive.ExternalStart()
		it.end, it.extEnd = active.End(), active.ExternalEnd()
		it.daughters = append([]Item{passive}, it.daughters...)
	} else {
		it.start, it.extStart = active.Start(), active.ExternalStart()
		it.end, it.extEnd = passive.End(), passive.ExternalEnd()
		it.daughters = append(it.daughters, passive)
	}
	it.tofill = active.RestArgs()
	it.nfilled = active.nfilled + 1
	it.trait = hpsg.SyntaxTrait
	o.register(it)
	passive.core().addParent(it)
	active.core().addParent(it)
	o.finishPhrasal(it, f, temporary)
	if it.Passive() {
		active.rule.Passives++
	} else {
		active.rule.Actives++
	}
	return it
}

func (o *ItemOwner) finishPhrasal(it *PhrasalItem, f tfs.FS, temporary bool) {
	u := o.unifier
	if it.Passive() {
		if o.packing {
			it.fs = u.Restrict(f, o.restrictor)
		} else {
			it.fs = f
		}
		if o.qcUnif {
			it.qcUnif = u.QCVectorUnif(it.fs)
		}
		if o.qcSubs {
			it.qcSubs = u.QCVectorSubs(it.fs)
		}
		return
	}
	it.fs = f
	if temporary {
		it.fsGen = u.Generation()
	}
	if o.qcUnif {
		arg := u.NthArg(f, it.NextArg())
		if arg != nil {
			it.qcUnif = u.QCVectorUnif(arg)
		}
	}
}

// NewUnpackedPhrasal builds a passive phrasal item during unpacking from a
// representative, a concrete choice of daughters, and the freshly derived
// (unrestricted) structure.
func (o *ItemOwner) NewUnpackedPhrasal(sponsor *PhrasalItem, dtrs []Item, f tfs.FS) *PhrasalItem {
	it := &PhrasalItem{rule: sponsor.rule}
	it.start, it.end = sponsor.start, sponsor.end
	it.extStart, it.extEnd = sponsor.extStart, sponsor.extEnd
	it.paths = sponsor.paths
	it.printname = sponsor.printname
	it.trait = hpsg.SyntaxTrait
	it.nfilled = len(dtrs)
	it.daughters = make([]Item, len(dtrs))
	copy(it.daughters, dtrs)
	it.fs = f
	o.register(it)
	return it
}
