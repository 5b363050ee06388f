package parser_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/cfg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/parser"
)

func newUnlimitedResources() *hpsg.Resources {
	r := hpsg.NewResources(0, 0, 0)
	r.StartRun()
	return r
}

// Packed forests must be ordered by subsumption: for every packed pair the
// representative subsumes the packed item.
func TestPackedPairsSubsume(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll | parser.PackNoUnpack
	c, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	u := g.Unifier()
	checked := 0
	for _, old := range c.Items() {
		for _, packed := range old.Packed() {
			fwd, _ := u.Subsumes(old.FS(), packed.FS())
			if !fwd && !old.Frozen() {
				t.Errorf("representative %v does not subsume packed %v", old, packed)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Errorf("expected packed pairs on ambiguous input")
	}
}

// Retroactive packing takes place when the more general item arrives
// later; no frosted item still owns packed items, and the sentence keeps
// at least one reading.
func TestRetroactivePacking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("retro")
	b.Type("NP")
	b.Type("NPsub", "NP")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("vp_v", "VP").N("V").End()
	// the specific NP rule comes first, so the more general item arrives
	// later and triggers retroactive packing
	b.LHS("np_spec", "NPsub").N("N").End()
	b.LHS("np_gen", "NP").N("N").End()
	b.Root("S")
	b.Word("dog", "N")
	b.Word("barks", "V")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("cannot build grammar: %v", err)
	}
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll
	c, stats, _ := parse(t, g, conf, "dog", "barks")
	if stats.PRetroactive == 0 {
		t.Fatalf("expected retroactive packing, stats: %+v", stats)
	}
	frosted := 0
	for _, it := range c.Items() {
		if it.Frosted() {
			frosted++
			if len(it.Packed()) != 0 {
				t.Errorf("frosted item %v still owns packed items", it)
			}
		}
	}
	// the superseded item is gone from the chart or frosted in place; its
	// derivations survive under the new representative
	if len(c.Readings()) < 1 {
		t.Errorf("expected at least one reading, got %d", len(c.Readings()))
	}
}

// Exhaustive unpacking with a null model and unbounded selective
// unpacking enumerate the same multiset of derivations.
func TestSelectiveMatchesExhaustive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll | parser.PackNoUnpack
	c, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")

	res := newUnlimitedResources()
	selective, _ := chart.SelectivelyUnpack(c.Trees(), 100, c.Rightmost(),
		g, chart.NullModel{}, 0, res)

	conf.Packing = parser.PackAll
	c2, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")

	var ds, de []string
	for _, r := range selective {
		ds = append(ds, chart.Derivation(r))
	}
	for _, r := range c2.Readings() {
		de = append(de, chart.Derivation(r))
	}
	if !sameStrings(ds, de) {
		t.Errorf("selective readings differ from exhaustive:\n%v\nvs\n%v", ds, de)
	}
}

// Unpacking is idempotent: running it twice over the same forest returns
// the same readings (from the per-item caches).
func TestUnpackIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	g := makeGrammar(t)
	conf := parser.DefaultConfig()
	conf.Packing = parser.PackAll | parser.PackNoUnpack
	c, _, _ := parse(t, g, conf, "i", "saw", "her", "duck")
	res := newUnlimitedResources()
	first, _ := chart.UnpackExhaustively(c.Trees(), c.Rightmost(), g, nil, res)
	second, _ := chart.UnpackExhaustively(c.Trees(), c.Rightmost(), g, nil, res)
	if len(first) != len(second) {
		t.Fatalf("unpack not idempotent: %d vs %d readings", len(first), len(second))
	}
	for i := range first {
		if first[i].ID() != second[i].ID() {
			t.Errorf("unpack returned different items on second run")
		}
	}
}
