package chart_test

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/cfg"
	"github.com/npillmayer/hpsg/chart"
)

func makeUnifier(t *testing.T) *cfg.G {
	b := cfg.NewGrammarBuilder("chart-test")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("np_n", "NP").N("N").End()
	b.LHS("vp_v", "VP").N("V").End()
	b.Root("S")
	b.Word("dog", "N")
	b.Word("barks", "V")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("cannot build grammar: %v", err)
	}
	return g
}

func inputItem(o *chart.ItemOwner, id string, start, end int, form string) *chart.InputItem {
	return o.NewInputItem(id, start, end, start, end, form, "",
		hpsg.WordToken, hpsg.Paths{}, nil, nil)
}

func lexFor(t *testing.T, g *cfg.G, o *chart.ItemOwner, in *chart.InputItem, cat string) *chart.LexItem {
	entries := g.Entries(in.Form())
	for _, e := range entries {
		hier := g.Hierarchy()
		if hier.Name(e.Type) == cat {
			f := g.Unifier().Instantiate(e.Type)
			return o.NewLexItem(e, in, f, nil)
		}
	}
	t.Fatalf("no entry %s for %q", cat, in.Form())
	return nil
}

func TestChartIndices(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.chart")
	defer teardown()
	//
	g := makeUnifier(t)
	o := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
	c := chart.New(2, o)
	if c.Length() != 3 || c.Rightmost() != 2 {
		t.Fatalf("chart geometry wrong: len=%d rightmost=%d", c.Length(), c.Rightmost())
	}
	in1 := inputItem(o, "t0", 0, 1, "dog")
	in2 := inputItem(o, "t1", 1, 2, "barks")
	c.Add(in1)
	c.Add(in2)
	lex1 := lexFor(t, g, o, in1, "N")
	lex2 := lexFor(t, g, o, in2, "V")
	c.Add(lex1)
	c.Add(lex2)
	if got := len(c.PassivesStartingAt(0)); got != 2 {
		t.Errorf("expected 2 passives at vertex 0, got %d", got)
	}
	if got := len(c.PassivesSpanning(1, 2)); got != 2 {
		t.Errorf("expected 2 passives spanning (1,2), got %d", got)
	}
	if got := len(c.PassivesEndingAt(2)); got != 2 {
		t.Errorf("expected 2 passives ending at 2, got %d", got)
	}
	if c.PEdges() != 4 {
		t.Errorf("expected 4 passive edges, got %d", c.PEdges())
	}
}

func TestChartConnected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.chart")
	defer teardown()
	//
	g := makeUnifier(t)
	o := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
	c := chart.New(2, o)
	in1 := inputItem(o, "t0", 0, 1, "dog")
	in2 := inputItem(o, "t1", 1, 2, "barks")
	c.Add(in1)
	c.Add(in2)
	lexical := func(it chart.Item) bool { return it.Trait() != hpsg.InputTrait }
	if c.Connected(lexical) {
		t.Errorf("chart with only input items must not be lexically connected")
	}
	c.Add(lexFor(t, g, o, in1, "N"))
	if c.Connected(lexical) {
		t.Errorf("gap at vertex 1 not detected")
	}
	c.Add(lexFor(t, g, o, in2, "V"))
	if !c.Connected(lexical) {
		t.Errorf("fully covered chart reported as disconnected")
	}
}

func TestFreezePropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.chart")
	defer teardown()
	//
	g := makeUnifier(t)
	o := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
	in := inputItem(o, "t0", 0, 1, "dog")
	lex := lexFor(t, g, o, in, "N")
	rule, _ := g.RuleByName("np_n")
	u := g.Unifier()
	f := rule.Instantiate(u)
	f = u.UnifyRestrict(f, u.NthArg(f, 1), lex.FS(), g.DeletedDaughters())
	np := o.NewPhrasalFromRule(rule, lex, f, false)
	srule, _ := g.RuleByName("s")
	sf := srule.Instantiate(u)
	sf = u.UnifyNP(sf, u.NthArg(sf, 1), np.FS())
	active := o.NewPhrasalFromRule(srule, np, sf, false)

	// frosting the lexical item freezes its consumers transitively
	frozen := chart.Frost(lex)
	if !lex.Frosted() {
		t.Errorf("lex item not frosted")
	}
	if !np.Frozen() || !active.Frozen() {
		t.Errorf("freeze did not propagate along parent links")
	}
	if frozen != 2 {
		t.Errorf("expected 2 newly frozen items, got %d", frozen)
	}
}

func TestDerivationPrinting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.chart")
	defer teardown()
	//
	g := makeUnifier(t)
	o := chart.NewItemOwner(g.Unifier(), nil, false, false, false, nil)
	in := inputItem(o, "t0", 0, 1, "dog")
	lex := lexFor(t, g, o, in, "N")
	rule, _ := g.RuleByName("np_n")
	u := g.Unifier()
	f := rule.Instantiate(u)
	f = u.UnifyRestrict(f, u.NthArg(f, 1), lex.FS(), g.DeletedDaughters())
	np := o.NewPhrasalFromRule(rule, lex, f, false)
	want := "(np_n (N_dog dog))"
	if d := chart.Derivation(np); d != want {
		t.Errorf("derivation = %s, want %s", d, want)
	}
	if y := chart.Yield(np); y != "dog" {
		t.Errorf("yield = %q, want %q", y, "dog")
	}
	if ids := chart.DerivationWithIDs(np); !strings.Contains(ids, "np_n") {
		t.Errorf("id derivation misses rule name: %s", ids)
	}
}
