package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/hpsg/cfg"
	"github.com/npillmayer/hpsg/chart"
	"github.com/npillmayer/hpsg/input"
	"github.com/npillmayer/hpsg/parser"
	"github.com/npillmayer/hpsg/sm"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// We provide a small English toy grammar as a default for parsing
// experiments:
//
//  S  ➞ NP VP
//  VP ➞ V | V NP | V NP VP
//  NP ➞ N | Det N | Pron
//
func makeToyGrammar() (*cfg.G, error) {
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
		{"the", "Det"}, {"a", "Det"}, {"her", "Det"}, {"her", "Pron"},
		{"i", "Pron"}, {"dog", "N"}, {"cat", "N"}, {"duck", "N"},
		{"duck", "V"}, {"barks", "V"}, {"saw", "V"}, {"saw", "N"},
		{"ad hoc", "N"},
	} {
		b.Word(w.form, w.cat)
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	model := sm.New().
		Weight(sm.Feature(nil, "vp_v_np", []string{"V_saw", "NP"}), 2.0).
		Weight(sm.Feature(nil, "np_det_n", []string{"Det_her", "N_duck"}), 1.0).
		LeafWeight("V_saw", 0.5)
	g.SetModel(model)
	return g, nil
}

// main starts an interactive shell: users type sentences, the parser
// prints readings, derivations and statistics.
func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	packing := flag.Int("packing", int(parser.PackAll), "packing mode bitmask")
	nsolutions := flag.Int("nsolutions", 0, "number of solutions (0 = all)")
	selective := flag.Bool("selective", false, "use selective (n-best) unpacking")
	gplevel := flag.Int("gplevel", 0, "grandparent level for selective unpacking")
	pedgelimit := flag.Int("pedgelimit", 0, "passive edge limit (0 = unlimited)")
	flag.Parse()
	level := tracing.LevelError
	switch strings.ToLower(*tlevel) {
	case "debug":
		level = tracing.LevelDebug
	case "info":
		level = tracing.LevelInfo
	}
	for _, key := range []string{"hpsg.grammar", "hpsg.parse", "hpsg.chart", "hpsg.input"} {
		tracing.Select(key).SetTraceLevel(level)
	}

	pterm.Info.Println("Welcome to the hpsg chart parser shell")
	g, err := makeToyGrammar()
	if err != nil {
		pterm.Error.Printf("cannot build grammar: %v\n", err)
		os.Exit(1)
	}
	tokenizer, err := input.NewTokenizer()
	if err != nil {
		pterm.Error.Printf("cannot build tokenizer: %v\n", err)
		os.Exit(1)
	}
	conf := parser.DefaultConfig()
	conf.Packing = parser.Packing(*packing)
	if *selective {
		conf.Packing |= parser.PackSelective
	}
	conf.NSolutions = *nsolutions
	conf.GPLevel = *gplevel
	conf.PEdgeLimit = *pedgelimit

	rl, err := readline.New("hpsg> ")
	if err != nil {
		pterm.Error.Printf("readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()
	id := 0
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			if err == readline.ErrInterrupt || err == io.EOF {
				break
			}
			pterm.Error.Println(err)
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		id++
		parseAndReport(g, tokenizer, conf, line, id)
	}
	pterm.Info.Println("Goodbye!")
}

func parseAndReport(g *cfg.G, tokenizer *input.Tokenizer, conf parser.Config,
	line string, id int) {
	//
	tokens, err := tokenizer.Tokenize(line)
	if err != nil {
		pterm.Error.Printf("tokenizer: %v\n", err)
		return
	}
	ch, stats, errors := parser.Analyze(g, g, tokens, conf, id)
	for _, e := range errors {
		if e.Severe() {
			pterm.Error.Println(e)
		} else {
			pterm.Warning.Println(e)
		}
	}
	readings := ch.Readings()
	if len(readings) == 0 {
		pterm.Warning.Println("no readings")
		if frags := parser.PartialResults(ch); len(frags) > 0 {
			pterm.Info.Println("best fragments:")
			for _, f := range frags {
				fmt.Printf("  %s\n", chart.Derivation(f))
			}
		}
	}
	for i, r := range readings {
		pterm.Success.Printf("reading %d (score %.3f, root %s):\n", i+1, r.Score(),
			g.Hierarchy().Name(r.ResultRoot()))
		fmt.Println("  " + chart.Derivation(r))
	}
	table := pterm.TableData{
		{"trees", fmt.Sprintf("%d", stats.Trees)},
		{"readings", fmt.Sprintf("%d", stats.Readings)},
		{"passive edges", fmt.Sprintf("%d", stats.PEdges)},
		{"active edges", fmt.Sprintf("%d", stats.AEdges)},
		{"tasks executed", fmt.Sprintf("%d", stats.ExecutedTasks)},
		{"tasks filtered", fmt.Sprintf("%d", stats.FilteredFI+stats.FilteredQC)},
		{"packed equi/pro/retro", fmt.Sprintf("%d/%d/%d",
			stats.PEquivalent, stats.PProactive, stats.PRetroactive)},
		{"frozen", fmt.Sprintf("%d", stats.PFrozen)},
		{"unpack edges", fmt.Sprintf("%d", stats.PUpedges)},
		{"parse time", stats.TCPU.String()},
	}
	pterm.DefaultTable.WithData(table).Render()
}
