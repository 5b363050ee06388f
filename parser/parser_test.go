package parser_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/cfg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/input"
	"github.com/npillmayer/hpsg/parser"
	"github.com/npillmayer/hpsg/sm"
)

// We use a small English toy grammar for testing:
//
//     S  → NP VP
//     VP → V  |  V NP  |  V NP VP
//     NP → N  |  Det N  |  Pron
//
// with an intentionally ambiguous lexicon (her ∈ {Det, Pron},
// duck ∈ {N, V}) so "i saw her duck" has two readings.
func makeGrammar(t *testing.T) *cfg.G {
	b := cfg.NewGrammarBuilder("toy-english")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("vp_v", "VP").N("V").End()
	b.LHS("vp_v_np", "VP").N("V").N("NP").End()
	b.LHS("vp_v_np_vp", "VP").N("V").N("NP").N("VP").End()
	b.LHS("np_n", "NP").N("N").End()
	b.LHS("np_det_n", "NP").N("Det").N("N").Key(2).End()
	b.LHS("np_pron", "NP").N("Pron").End()
	b.Root("S")
	for _, w := range []struct{ form, cat string }{
		{"the", "Det"}, {"her", "Det"}, {"her", "Pron"}, {"i", "Pron"},
		{"dog", "N"}, {"duck", "N"}, {"duck", "V"}, {"barks", "V"},
		{"saw", "V"},
	} {
		b.Word(w.form, w.cat)
	}
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("cannot build grammar: %v", err)
	}
	return g
}

func parse(t *testing.T, g *cfg.G, conf parser.Config, words ...string) (
	*chart.Chart, *parser.Stats, []*hpsg.Error) {
	//
	return parser.Analyze(g, g, input.FromWords(words...), conf, 1)
}

func derivations(c *chart.Chart) []string {
	var out []string
	for _, r := range c.Readings() {
		out = append(out, chart.Derivation(r))
	}
	return out
}

// --- the Tests -------------------------------------------------------------

func TestParseSimple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	c, stats, errs := parse(t, g, parser.DefaultConfig(), "the", "dog", "barks")
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if len(c.Readings()) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(c.Readings()))
	}
	want := "(s (np_det_n (Det_the the) (N_dog dog)) (vp_v (V_barks barks)))"
	if d := chart.Derivation(c.Readings()[0]); d != want {
		t.Errorf("derivation = %s, want %s", d, want)
	}
	if stats.Trees != 1 {
		t.Errorf("expected 1 tree, got %d", stats.Trees)
	}
	if stats.FirstTree < 0 {
		t.Errorf("first-tree time not recorded")
	}
}

func TestParseBareNoun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	c, _, errs := parse(t, g, parser.DefaultConfig(), "dog", "barks")
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if len(c.Readings()) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(c.Readings()))
	}
	want := "(s (np_n (N_dog dog)) (vp_v (V_barks barks)))"
	if d := chart.Derivation(c.Readings()[0]); d != want {
		t.Errorf("derivation = %s, want %s", d, want)
	}
}

func TestParseNoSentence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	c, _, errs := parse(t, g, parser.DefaultConfig(), "the", "dog")
	if len(c.Readings()) != 0 {
		t.Errorf("expected 0 readings, got %d", len(c.Readings()))
	}
	// lexical material covers the chart, so this is a plain non-parse with
	// no diagnostics
	if len(errs) != 0 {
		t.Errorf("expected 0 errors, got %v", errs)
	}
}

func TestParseAmbiguous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	c1, stats1, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	if len(c1.Readings()) != 2 {
		t.Fatalf("expected 2 readings without packing, got %d", len(c1.Readings()))
	}
	// With packing, the reading set must not change, but the chart must
	// shrink.
	conf.Packing = parser.PackAll
	c2, stats2, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	if len(c2.Readings()) != 2 {
		t.Fatalf("expected 2 readings with packing, got %d", len(c2.Readings()))
	}
	d1, d2 := derivations(c1), derivations(c2)
	if !sameStrings(d1, d2) {
		t.Errorf("packing changed the reading set:\n%v\nvs\n%v", d1, d2)
	}
	if stats2.PEquivalent+stats2.PProactive+stats2.PRetroactive == 0 {
		t.Errorf("expected some packing on ambiguous input")
	}
	if stats2.PEdges >= stats1.PEdges {
		t.Errorf("packing did not reduce edge count: %d vs %d",
			stats2.PEdges, stats1.PEdges)
	}
}

func TestSelectiveTop1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	model := sm.New().
		Weight(sm.Feature(nil, "np_det_n", []string{"Det_her", "N_duck"}), 2.0)
	g.SetModel(model)
	defer g.SetModel(nil)

	// exhaustive unpacking ranks by score
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll
	c1, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	if len(c1.Readings()) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(c1.Readings()))
	}
	best := chart.Derivation(c1.Readings()[0])
	want := "(s (np_pron (Pron_i i)) (vp_v_np (V_saw saw) (np_det_n (Det_her her) (N_duck duck))))"
	if best != want {
		t.Errorf("best reading = %s, want %s", best, want)
	}

	// selective top-1 returns the higher-scoring reading only
	conf.Packing = parser.PackAll | parser.PackSelective
	conf.NSolutions = 1
	c2, stats2, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	if len(c2.Readings()) != 1 {
		t.Fatalf("expected 1 selective reading, got %d", len(c2.Readings()))
	}
	if d := chart.Derivation(c2.Readings()[0]); d != want {
		t.Errorf("selective top-1 = %s, want %s", d, want)
	}
	if stats2.PHypotheses == 0 {
		t.Errorf("expected hypotheses to be counted")
	}
}

func TestSpuriousAmbiguityPacks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("spurious")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("vp_v", "VP").N("V").End()
	b.LHS("np_n", "NP").N("N").End()
	b.Root("S")
	b.Word("dog", "N")
	// two semantically equivalent lexical entries for "barks"
	b.Word("barks", "V")
	b.Word("barks", "V")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("cannot build grammar: %v", err)
	}
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll | parser.PackNoUnpack
	c, stats, _ := parse(t, g, conf, "dog", "barks")
	if stats.PEquivalent == 0 {
		t.Errorf("expected equivalence packing of duplicate entries")
	}
	if len(c.Readings()) != 1 {
		t.Errorf("expected exactly 1 reading to survive packing, got %d",
			len(c.Readings()))
	}
}

func TestResourceLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.PEdgeLimit = 3
	c, _, errs := parse(t, g, conf, "the", "dog", "barks")
	if len(c.Readings()) != 0 {
		t.Errorf("expected 0 readings under edge limit, got %d", len(c.Readings()))
	}
	found := false
	for _, e := range errs {
		if e.Kind == hpsg.ResourceExhausted {
			found = true
			if e.Severe() {
				t.Errorf("resource exhaustion must be recoverable")
			}
		}
	}
	if !found {
		t.Errorf("expected a ResourceExhausted error, got %v", errs)
	}
}

func TestEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	c, _, errs := parse(t, g, parser.DefaultConfig())
	if len(c.Readings()) != 0 || len(errs) != 0 {
		t.Errorf("empty input: want no readings and no errors, got %d/%v",
			len(c.Readings()), errs)
	}
}

func TestUnknownWordDiagnostic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	c, _, errs := parse(t, g, parser.DefaultConfig(), "xyzzy")
	if len(c.Readings()) != 0 {
		t.Errorf("expected 0 readings, got %d", len(c.Readings()))
	}
	if len(errs) != 1 || errs[0].Kind != hpsg.NoReadings || errs[0].Severe() {
		t.Errorf("expected one non-fatal NoReadings diagnostic, got %v", errs)
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll
	c1, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	c2, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	d1, d2 := derivations(c1), derivations(c2)
	if len(d1) != len(d2) {
		t.Fatalf("runs differ in reading count: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Errorf("readings differ at %d:\n%s\nvs\n%s", i, d1[i], d2[i])
		}
	}
}

func TestHyperactiveEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.Hyper = true
	c1, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	conf.Hyper = false
	c2, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	if !sameStrings(derivations(c1), derivations(c2)) {
		t.Errorf("hyperactive scheduling changed the reading set")
	}
}

func TestLatticeInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	lattice := input.NewLattice().
		Arc(0, 1, "the", 1, 2).
		Arc(1, 2, "dog", 1).
		Arc(1, 2, "duck", 2).
		Arc(2, 3, "barks", 1, 2)
	conf := parser.DefaultConfig()
	conf.Lattice = true
	c, _, errs := parser.Analyze(g, g, lattice.Tokens(), conf, 1)
	for _, e := range errs {
		if e.Severe() {
			t.Fatalf("unexpected error: %v", e)
		}
	}
	if len(c.Readings()) != 2 {
		t.Errorf("expected 2 lattice readings, got %d", len(c.Readings()))
	}
}

func TestMultiWordEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("mwe")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("vp_v", "VP").N("V").End()
	b.LHS("np_n", "NP").N("N").End()
	b.Root("S")
	b.Word("ad hoc", "N")
	b.Word("works", "V")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("cannot build grammar: %v", err)
	}
	c, _, _ := parse(t, g, parser.DefaultConfig(), "ad", "hoc", "works")
	if len(c.Readings()) != 1 {
		t.Fatalf("expected 1 reading for multi-word entry, got %d", len(c.Readings()))
	}
	want := "(s (np_n (N_ad+hoc ad hoc)) (vp_v (V_works works)))"
	if d := chart.Derivation(c.Readings()[0]); d != want {
		t.Errorf("derivation = %s, want %s", d, want)
	}
}

// --- Helpers ---------------------------------------------------------------

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int)
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
		if seen[s] < 0 {
			return false
		}
	}
	return true
}
