package cfg

import (
	"fmt"
	"strings"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/grammar"
	"github.com/npillmayer/hpsg/tfs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hpsg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.grammar")
}

// G is an in-memory grammar over atomic categories. It implements the
// grammar capability interfaces consumed by the parser, including the
// lexicon.
type G struct {
	name       string
	unifier    *Unifier
	rules      []*grammar.Rule
	roots      []hpsg.TypeID
	deleted    []hpsg.AttrID
	restrictor []hpsg.AttrID
	lexicon    map[string][]*grammar.LexEntry
	filters    *grammar.Filters
	model      chart.ScoringModel
}

// Name returns the grammar's name.
func (g *G) Name() string { return g.name }

// Rules returns the rules of the given activation set.
func (g *G) Rules(which grammar.RuleSet) []*grammar.Rule {
	if which == grammar.AllRules {
		return g.rules
	}
	var out []*grammar.Rule
	for _, r := range g.rules {
		switch which {
		case grammar.InflOnly:
			if r.Trait == hpsg.InflTrait {
				out = append(out, r)
			}
		case grammar.LexAndInfl:
			if r.Trait == hpsg.InflTrait || r.Trait == hpsg.LexTrait {
				out = append(out, r)
			}
		case grammar.SyntaxOnly:
			if r.Trait == hpsg.SyntaxTrait {
				out = append(out, r)
			}
		}
	}
	return out
}

// Unifier returns the unifier of this grammar.
func (g *G) Unifier() tfs.Unifier { return g.unifier }

// Types returns the type hierarchy.
func (g *G) Types() tfs.Types { return g.unifier.hierarchy }

// Hierarchy returns the concrete hierarchy, for name lookups.
func (g *G) Hierarchy() *Hierarchy { return g.unifier.hierarchy }

// FilterCompatible consults the precomputed rule filter.
func (g *G) FilterCompatible(mother *grammar.Rule, arg int, daughter *grammar.Rule) bool {
	return g.filters.Compatible(mother, arg, daughter)
}

// SubsumptionFilterCompatible consults the precomputed subsumption filter.
func (g *G) SubsumptionFilterCompatible(a, b *grammar.Rule) (bool, bool) {
	return g.filters.SubsumptionCompatible(a, b)
}

// DeletedDaughters returns the ARG attributes, which passive results
// delete.
func (g *G) DeletedDaughters() []hpsg.AttrID { return g.deleted }

// PackingRestrictor returns the attributes removed from packing
// structures.
func (g *G) PackingRestrictor() []hpsg.AttrID { return g.restrictor }

// RootTypes returns the root categories of the grammar.
func (g *G) RootTypes() []hpsg.TypeID { return g.roots }

// Root checks a structure against the root categories.
func (g *G) Root(f tfs.FS) (hpsg.TypeID, bool) {
	if f == nil {
		return hpsg.NoType, false
	}
	for _, root := range g.roots {
		if g.unifier.Compatible(&node{typ: root}, f) {
			return root, true
		}
	}
	return hpsg.NoType, false
}

// RuleByName returns the rule with the given name.
func (g *G) RuleByName(name string) (*grammar.Rule, bool) {
	for _, r := range g.rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// RuleTypeByName returns the template type of the rule with the given
// name. Input tokens name their pending inflectional rules by these
// types.
func (g *G) RuleTypeByName(name string) (hpsg.TypeID, bool) {
	return g.unifier.hierarchy.Lookup("rule:" + name)
}

// Entries returns the lexicon entries whose key word equals form.
func (g *G) Entries(form string) []*grammar.LexEntry {
	return g.lexicon[strings.ToLower(form)]
}

// StochasticModel returns the scoring model, nil if none was attached.
func (g *G) StochasticModel() chart.ScoringModel { return g.model }

// SetModel attaches a scoring model to the grammar.
func (g *G) SetModel(m chart.ScoringModel) { g.model = m }

// --- Builder ---------------------------------------------------------------

// GrammarBuilder assembles a grammar from rule and lexicon declarations.
// Categories are created implicitly on first reference; explicit Type
// declarations introduce subtype links.
type GrammarBuilder struct {
	name      string
	hierarchy *Hierarchy
	keyOrder  grammar.KeyOrder
	rules     []*RuleDecl
	words     []wordDecl
	roots     []string
	maxArity  int
	err       error
}

// RuleDecl is an open rule declaration, created by GrammarBuilder.LHS and
// closed by End.
type RuleDecl struct {
	b        *GrammarBuilder
	name     string
	lhs      string
	rhs      []string
	trait    hpsg.Trait
	key      int
	hyper    bool
	spanning bool
}

type wordDecl struct {
	form string
	cat  string
}

// NewGrammarBuilder creates a builder for a grammar with the given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      name,
		hierarchy: newHierarchy(),
		keyOrder:  grammar.KeyDriven,
	}
}

// SetKeyOrder selects the argument-filling order for all rules.
func (b *GrammarBuilder) SetKeyOrder(o grammar.KeyOrder) *GrammarBuilder {
	b.keyOrder = o
	return b
}

// Type declares a category as a subtype of the given parents.
func (b *GrammarBuilder) Type(name string, parents ...string) *GrammarBuilder {
	pids := make([]hpsg.TypeID, 0, len(parents))
	for _, p := range parents {
		pids = append(pids, b.cat(p))
	}
	b.hierarchy.add(name, pids...)
	return b
}

func (b *GrammarBuilder) cat(name string) hpsg.TypeID {
	return b.hierarchy.add(name)
}

// LHS opens a rule declaration for the given mother category. Chain N
// calls for the daughters and finish with End:
//
//     b.LHS("s", "S").N("NP").N("VP").End()
func (b *GrammarBuilder) LHS(ruleName, cat string) *RuleDecl {
	r := &RuleDecl{
		b:     b,
		name:  ruleName,
		lhs:   cat,
		trait: hpsg.SyntaxTrait,
		key:   1,
		hyper: true,
	}
	b.rules = append(b.rules, r)
	return r
}

// N appends a daughter category to the rule.
func (r *RuleDecl) N(cat string) *RuleDecl {
	r.rhs = append(r.rhs, cat)
	return r
}

// Key designates the key daughter (1-based) for key-driven filling.
func (r *RuleDecl) Key(i int) *RuleDecl {
	r.key = i
	return r
}

// Lex marks the rule as a lexical rule.
func (r *RuleDecl) Lex() *RuleDecl {
	r.trait = hpsg.LexTrait
	return r
}

// Infl marks the rule as an inflectional rule.
func (r *RuleDecl) Infl() *RuleDecl {
	r.trait = hpsg.InflTrait
	return r
}

// Spanning restricts items of this rule to span the whole chart.
func (r *RuleDecl) Spanning() *RuleDecl {
	r.spanning = true
	return r
}

// Depressive excludes this rule from hyperactive scheduling.
func (r *RuleDecl) Depressive() *RuleDecl {
	r.hyper = false
	return r
}

// End closes the rule declaration.
func (r *RuleDecl) End() *GrammarBuilder {
	if len(r.rhs) == 0 && r.b.err == nil {
		r.b.err = fmt.Errorf("rule %s has no daughters", r.name)
	}
	if len(r.rhs) > r.b.maxArity {
		r.b.maxArity = len(r.rhs)
	}
	return r.b
}

// Word adds a lexicon entry. Multi-word orthographies are given
// space-separated; the first word is the key.
func (b *GrammarBuilder) Word(form string, cat string) *GrammarBuilder {
	b.words = append(b.words, wordDecl{form: strings.ToLower(form), cat: cat})
	return b
}

// Root declares the root categories.
func (b *GrammarBuilder) Root(cats ...string) *GrammarBuilder {
	b.roots = append(b.roots, cats...)
	return b
}

// Grammar builds the grammar: category types, rule templates, quickcheck
// vectors and the filter tables.
func (b *GrammarBuilder) Grammar() (*G, error) {
	if b.err != nil {
		return nil, b.err
	}
	u := newUnifier(b.hierarchy)
	g := &G{
		name:    b.name,
		unifier: u,
		lexicon: make(map[string][]*grammar.LexEntry),
	}
	for i := 1; i <= b.maxArity; i++ {
		g.deleted = append(g.deleted, ArgAttr(i))
	}
	for id, decl := range b.rules {
		mother := b.cat(decl.lhs)
		tmplType := b.hierarchy.add("rule:" + decl.name)
		template := &node{typ: mother}
		for i, d := range decl.rhs {
			template.set(ArgAttr(i+1), &node{typ: b.cat(d)})
		}
		u.registerTemplate(tmplType, template)
		r, err := grammar.NewRule(hpsg.RuleID(id), tmplType, decl.name, decl.trait,
			len(decl.rhs), decl.key, b.keyOrder, decl.hyper, decl.spanning)
		if err != nil {
			return nil, err
		}
		g.rules = append(g.rules, r)
	}
	for _, w := range b.words {
		orth := strings.Fields(w.form)
		entry := &grammar.LexEntry{
			Orth:  orth,
			Type:  b.cat(w.cat),
			Ident: w.cat + "_" + strings.Join(orth, "+"),
		}
		g.lexicon[orth[0]] = append(g.lexicon[orth[0]], entry)
	}
	for _, root := range b.roots {
		g.roots = append(g.roots, b.cat(root))
	}
	for _, r := range g.rules {
		if err := r.InitQC(u); err != nil {
			return nil, err
		}
	}
	g.filters = grammar.BuildFilters(g, true)
	tracer().Infof("grammar %s: %d rules, %d lexicon entries, %d types",
		g.name, len(g.rules), len(b.words), len(b.hierarchy.names))
	return g, nil
}
