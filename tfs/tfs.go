/*
Package tfs declares the interfaces between the chart parser and the
external unifier for typed feature structures.

The parser never inspects feature structures: it instantiates rule
templates, unifies daughters into argument positions, copies results, and
tests subsumption, all through the Unifier capability. Implementations of a
full dag unifier live outside this module; package cfg provides a minimal
atomic-category implementation for testing and experimentation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tfs

import (
	"github.com/npillmayer/hpsg"
)

// FS is an opaque feature structure. A nil FS denotes a failed unification;
// implementations must return an untyped nil on failure.
type FS interface {
	// Type returns the root type code of the structure.
	Type() hpsg.TypeID
}

// AllocScope marks a point in the unifier's allocation arena. A scope taken
// at the start of a task is released if unification fails, dropping all
// structures built since the mark, or promoted on success.
type AllocScope interface {
	Release()
	Promote()
}

// Unifier is the capability the parser consumes. All operations are
// synchronous and single-threaded; structures returned by UnifyNP may live
// in a temporary generation and are only valid until the next Mark.
type Unifier interface {
	// Instantiate returns a fresh feature structure for a type template.
	Instantiate(t hpsg.TypeID) FS

	// NthArg returns the substructure representing the i-th argument of a
	// rule structure, 1-based. Nil if the structure has no such argument.
	NthArg(f FS, i int) FS

	// Unify unifies sub into the substructure arg of root and returns the
	// modified root, nil on failure. root may be modified destructively
	// and must be owned by the caller; sub is never modified.
	Unify(root, arg, sub FS) FS

	// UnifyNP is the non-permanent variant of Unify: the result may live in
	// a temporary generation and must be copied (or recreated) before it
	// outlives the current allocation scope.
	UnifyNP(root, arg, sub FS) FS

	// UnifyRestrict unifies like Unify and deletes the attributes in del
	// from the result's top level. Used for the last argument of a passive
	// result with the grammar's deleted-daughters set. The result is
	// permanent: it survives the release of the current allocation scope.
	UnifyRestrict(root, arg, sub FS, del []hpsg.AttrID) FS

	// Copy makes a permanent copy of f, surviving scope release.
	Copy(f FS) FS

	// Restrict returns a copy of f with the attributes in del removed.
	// Applied with the grammar's packing restrictor to obtain the
	// structures packing operates on.
	Restrict(f FS, del []hpsg.AttrID) FS

	// Compatible returns true if a and b unify, without building a result.
	Compatible(a, b FS) bool

	// Subsumes computes both subsumption directions in one pass: forward
	// means a subsumes b (a is the more general structure), backward the
	// converse. forward && backward means equivalence.
	Subsumes(a, b FS) (forward, backward bool)

	// QCVectorUnif extracts the quickcheck vector of f along the configured
	// unification quickcheck paths. Empty if quickcheck is disabled.
	QCVectorUnif(f FS) QC

	// QCVectorSubs extracts the quickcheck vector of f along the configured
	// subsumption quickcheck paths.
	QCVectorSubs(f FS) QC

	// Generation returns the current unification generation. A structure
	// stamped with an older generation holds temporary parts which must be
	// recreated before use (hyperactive parsing).
	Generation() uint64

	// Mark opens a new allocation scope and advances the generation.
	Mark() AllocScope
}

// UnifierStats are counters a unifier may expose for the per-parse
// statistics.
type UnifierStats struct {
	UnifySucc int
	UnifyFail int
	SubsSucc  int
	SubsFail  int
}

// StatsProvider is implemented by unifiers that keep counters.
type StatsProvider interface {
	Stats() UnifierStats
	ResetStats()
}
