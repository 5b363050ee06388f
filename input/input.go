/*
Package input provides the tokenizer front end of the parser: it turns raw
text into input tokens carrying external character positions, and supports
assembling word lattices with path sets.

Tokenization here is deliberately simple: words, numbers and punctuation.
Serious preprocessing pipelines (taggers, named-entity recognizers,
morphology) run outside this module and deliver tokens directly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package input

import (
	"fmt"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'hpsg.input'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.input")
}

// Token ids of the built-in tokenizer.
const (
	wordToken = iota + 1
	punctToken
)

// Tokenizer splits raw text into input tokens. Create with NewTokenizer;
// the zero value is not usable.
type Tokenizer struct {
	lexer *lexmachine.Lexer
}

// NewTokenizer compiles the tokenizer DFA.
func NewTokenizer() (*Tokenizer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`([a-zA-Z]|[0-9]|'|-)+`), makeToken(wordToken))
	lexer.Add([]byte(`[.,;:!?"()]`), makeToken(punctToken))
	lexer.Add([]byte("( |\t|\n|\r)+"), skip)
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling tokenizer DFA: %v", err)
		return nil, err
	}
	return &Tokenizer{lexer: lexer}, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// Tokenize splits text into input tokens. Punctuation becomes skip tokens,
// which lexical processing drops before chart positions are computed.
func (t *Tokenizer) Tokenize(text string) ([]parser.InputToken, error) {
	s, err := t.lexer.Scanner([]byte(text))
	if err != nil {
		return nil, err
	}
	var tokens []parser.InputToken
	id := 0
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				s.TC = ui.FailTC
				continue
			}
			return nil, err
		}
		lmtok := tok.(*lexmachine.Token)
		it := parser.NewToken(id, string(lmtok.Lexeme),
			lmtok.StartColumn-1, lmtok.EndColumn)
		if lmtok.Type == punctToken {
			it.Class = hpsg.SkipToken
		}
		tokens = append(tokens, it)
		id++
	}
	tracer().Debugf("tokenized %q into %d tokens", text, len(tokens))
	return tokens, nil
}

// FromWords builds a token sequence directly from words, for tests and
// programmatic input.
func FromWords(words ...string) []parser.InputToken {
	tokens := make([]parser.InputToken, 0, len(words))
	pos := 0
	for i, w := range words {
		tokens = append(tokens, parser.NewToken(i, w, pos, pos+len(w)))
		pos += len(w) + 1
	}
	return tokens
}

// LatticeBuilder assembles a word lattice: tokens between explicit chart
// vertices, each belonging to a set of paths through the lattice.
type LatticeBuilder struct {
	tokens []parser.InputToken
}

// NewLattice creates an empty lattice builder.
func NewLattice() *LatticeBuilder {
	return &LatticeBuilder{}
}

// Arc adds a token between the vertices from and to, lying on the given
// paths.
func (l *LatticeBuilder) Arc(from, to int, form string, paths ...int) *LatticeBuilder {
	tok := parser.InputToken{
		ID:          fmt.Sprintf("arc%d", len(l.tokens)),
		Form:        form,
		Class:       hpsg.WordToken,
		Start:       from,
		End:         to,
		StartVertex: from,
		EndVertex:   to,
		Paths:       hpsg.NewPaths(paths...),
	}
	l.tokens = append(l.tokens, tok)
	return l
}

// Tokens returns the assembled token list.
func (l *LatticeBuilder) Tokens() []parser.InputToken {
	return l.tokens
}
