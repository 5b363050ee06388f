/*
Package hpsg is a chart parser for typed-feature-structure grammars.

The module implements an agenda-driven bottom-up chart parser in the
tradition of unification-based (HPSG-style) processing: passive and active
chart items are combined under grammar rules, equivalent analyses are packed
into a parse forest, and readings are recovered from the forest either
exhaustively or selectively (n-best) under a log-linear scoring model.
Package structure is as follows:

■ tfs: interfaces for the external unifier and its feature structures,
together with quickcheck vectors.

■ grammar: grammar rules, the grammar capability interface, and the
precomputed rule/subsumption filters.

■ chart: chart items and indices, derivations, and the unpacking of packed
forests.

■ agenda: priority queues of parse tasks.

■ parser: the parsing loop proper: tasks, filters, ambiguity packing, and
the top-level Analyze entry point.

■ sparse, sm, cfg, input: supporting data structures, a reference scoring
model, a reference atomic-category grammar, and a tokenizer front end.

The base package contains small data types which are used throughout all
the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hpsg

import "fmt"

// --- Identifiers -----------------------------------------------------------

// TypeID identifies a type in the grammar's type hierarchy. Type codes are
// stable non-negative integers supplied by the grammar; NoType marks the
// absence of a type.
type TypeID int

// NoType is the null type code.
const NoType TypeID = -1

// AttrID identifies an attribute (feature) of the grammar.
type AttrID int

// RuleID identifies a grammar rule. Rule ids are dense, starting at 0, and
// index the precomputed filter tables.
type RuleID int

// --- Traits ----------------------------------------------------------------

// Trait classifies chart items and grammar rules. The trait of an item
// determines which rules may apply to it.
type Trait int8

// Trait values.
const (
	SyntaxTrait Trait = iota // phrasal items / syntactic rules
	LexTrait                 // lexical items with all inflection applied
	InflTrait                // lexical items still awaiting inflection rules
	InputTrait               // input tokens, no feature structure yet
)

func (t Trait) String() string {
	switch t {
	case SyntaxTrait:
		return "syntax"
	case LexTrait:
		return "lex"
	case InflTrait:
		return "infl"
	case InputTrait:
		return "input"
	}
	return fmt.Sprintf("trait(%d)", int(t))
}

// --- Token classes ---------------------------------------------------------

// TokenClass describes what lexical processing should do with an input
// token. Values ≥ 0 are HPSG type codes: the lexicon entry is accessed
// directly through this type.
type TokenClass int

// Reserved token classes.
const (
	SkipToken TokenClass = -3 // ignore this token (e.g. punctuation)
	WordToken TokenClass = -2 // look up the surface form in the lexicon
	StemToken TokenClass = -1 // morphology done, look up the given stem
)

func (c TokenClass) String() string {
	switch c {
	case SkipToken:
		return "skip"
	case WordToken:
		return "word"
	case StemToken:
		return "stem"
	}
	return fmt.Sprintf("type(%d)", int(c))
}

// --- Spans -----------------------------------------------------------------

// Span is a small type for capturing a run of chart vertices. For every
// item, the chart will track which vertices the item covers. A span denotes
// a start vertex and the end vertex.
type Span [2]int // (x…y)

// From returns the start vertex of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end vertex of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y).
func (s Span) Len() int {
	return s[1] - s[0]
}

// Extend returns the union span of s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
