/*
Package grammar holds the parser-facing model of a precompiled grammar:
rules with their argument-filling orders, the grammar capability interface,
and the precomputed rule and subsumption filters.

Grammar loading itself (binary dumps, type hierarchy construction, GLB
tables) happens outside this module; an implementation only has to satisfy
the Grammar interface. Package cfg provides a minimal in-memory
implementation over atomic categories.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"fmt"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/tfs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hpsg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.grammar")
}

// KeyOrder selects the canonical order in which a rule's arguments are
// filled.
type KeyOrder int8

// Argument orderings. For binary rules all orderings degenerate to a choice
// of first argument.
const (
	KeyDriven    KeyOrder = iota // the rule's key daughter first, then left-to-right
	LeftToRight                  // arguments 1…n
	RightToLeft                  // arguments n…1
	HeadDriven                   // the rule's head daughter first, then left-to-right
)

// Rule is a grammar rule: a feature-structure template with arity argument
// positions, filled in the order given by ToFill.
type Rule struct {
	ID           hpsg.RuleID
	Type         hpsg.TypeID // fs template type
	Name         string
	Trait        hpsg.Trait // InflTrait, LexTrait or SyntaxTrait
	Arity        int
	ToFill       []int // canonical filling order, positions are 1-based
	Hyper        bool  // eligible for hyperactive scheduling
	SpanningOnly bool  // items of this rule must span the whole chart

	// Per-rule statistics: how many active resp. passive edges were
	// produced using this rule.
	Actives  int
	Passives int

	qcUnif []tfs.QC // per argument, index arg-1
}

// NewRule creates a rule and computes its argument-filling order. The key
// argument (1-based) is consulted for KeyDriven and HeadDriven ordering
// only.
func NewRule(id hpsg.RuleID, t hpsg.TypeID, name string, trait hpsg.Trait,
	arity int, key int, order KeyOrder, hyper, spanningOnly bool) (*Rule, error) {
	//
	if arity < 1 {
		return nil, fmt.Errorf("rule %s has no arguments", name)
	}
	r := &Rule{
		ID:           id,
		Type:         t,
		Name:         name,
		Trait:        trait,
		Arity:        arity,
		Hyper:        hyper,
		SpanningOnly: spanningOnly,
	}
	r.ToFill = fillOrder(order, arity, key)
	return r, nil
}

func fillOrder(order KeyOrder, arity, key int) []int {
	tofill := make([]int, 0, arity)
	switch order {
	case RightToLeft:
		for i := arity; i >= 1; i-- {
			tofill = append(tofill, i)
		}
	case KeyDriven, HeadDriven:
		if key < 1 || key > arity {
			key = 1
		}
		tofill = append(tofill, key)
		for i := 1; i <= arity; i++ {
			if i != key {
				tofill = append(tofill, i)
			}
		}
	default: // LeftToRight
		for i := 1; i <= arity; i++ {
			tofill = append(tofill, i)
		}
	}
	return tofill
}

// NextArg returns the first argument position to fill.
func (r *Rule) NextArg() int {
	return r.ToFill[0]
}

// RestArgs returns the filling order without the first position.
func (r *Rule) RestArgs() []int {
	return r.ToFill[1:]
}

// LeftExtending returns true if the rule fills its leftmost argument first,
// i.e. items built from it then grow rightwards from that argument.
func (r *Rule) LeftExtending() bool {
	return r.ToFill[0] == 1
}

// Instantiate returns a fresh feature structure for this rule's template.
func (r *Rule) Instantiate(u tfs.Unifier) tfs.FS {
	return u.Instantiate(r.Type)
}

// InitQC precomputes the unification quickcheck vectors of the rule's
// argument positions. Called once per rule after grammar setup.
func (r *Rule) InitQC(u tfs.Unifier) error {
	f := r.Instantiate(u)
	if f == nil {
		return fmt.Errorf("rule %s: cannot instantiate template", r.Name)
	}
	r.qcUnif = make([]tfs.QC, r.Arity)
	for arg := 1; arg <= r.Arity; arg++ {
		argfs := u.NthArg(f, arg)
		if argfs == nil {
			return fmt.Errorf("rule %s: argument %d cannot be resolved", r.Name, arg)
		}
		r.qcUnif[arg-1] = u.QCVectorUnif(argfs)
	}
	return nil
}

// QCVectorUnif returns the quickcheck vector for argument arg (1-based),
// nil if quickcheck vectors have not been initialized.
func (r *Rule) QCVectorUnif(arg int) tfs.QC {
	if r.qcUnif == nil || arg < 1 || arg > len(r.qcUnif) {
		return nil
	}
	return r.qcUnif[arg-1]
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s/%d[%s]", r.Name, r.Arity, r.Trait)
}
