package grammar

import (
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/tfs"
)

// RuleSet selects which rules of a grammar are active for a processing
// stage.
type RuleSet int8

// Rule activation sets.
const (
	AllRules   RuleSet = iota
	InflOnly           // inflectional rules only
	LexAndInfl         // lexical and inflectional rules
	SyntaxOnly         // syntactic rules only
)

// Grammar is the capability interface the parser consumes. Implementations
// are expected to be immutable during a parse.
type Grammar interface {
	// Rules returns the rules in the given activation set, in a stable
	// order.
	Rules(which RuleSet) []*Rule

	// Unifier returns the unifier for this grammar's feature structures.
	Unifier() tfs.Unifier

	// Types returns the type hierarchy operations used by quickcheck.
	Types() tfs.Types

	// FilterCompatible returns true if daughter's result can unify into
	// mother's arg-th argument position. A nil daughter (a lexical item
	// without a rule) is compatible with everything.
	FilterCompatible(mother *Rule, arg int, daughter *Rule) bool

	// SubsumptionFilterCompatible returns whether a's results may subsume
	// b's (forward) resp. the converse (backward). Nil rules yield
	// (true, true).
	SubsumptionFilterCompatible(a, b *Rule) (forward, backward bool)

	// DeletedDaughters returns the attributes to delete from the root of
	// passive results.
	DeletedDaughters() []hpsg.AttrID

	// PackingRestrictor returns the attributes removed from the restricted
	// structures packing operates on.
	PackingRestrictor() []hpsg.AttrID

	// RootTypes returns the root-compatibility types of the grammar.
	RootTypes() []hpsg.TypeID

	// Root checks a structure for compatibility with one of the root types
	// and returns the licensing type.
	Root(f tfs.FS) (hpsg.TypeID, bool)
}

// LexEntry is a lexicon entry ("stem"): an orthography of one or more
// surface words, the lexical type to instantiate, and the position of the
// key word within a multi-word orthography.
type LexEntry struct {
	Orth   []string // surface words, lowercased
	Type   hpsg.TypeID
	KeyPos int    // index into Orth of the word triggering lookup
	Ident  string // external name for derivation printing
}

// Length returns the number of surface words of the entry.
func (le *LexEntry) Length() int {
	return len(le.Orth)
}

// Lexicon is the lookup capability of the lexical processing layer.
// Morphological analysis and generic entries stay outside this module; an
// input item either names a surface form (WordToken) or a readily analyzed
// stem plus inflection rules (StemToken).
type Lexicon interface {
	// Entries returns the lexicon entries whose key word equals form.
	Entries(form string) []*LexEntry
}
