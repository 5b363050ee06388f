package tfs

import (
	"github.com/npillmayer/hpsg"
)

// QC is a quickcheck vector: a fixed-length array of type codes, one per
// configured quickcheck path, obtained by walking a feature structure along
// those paths. A position holds hpsg.NoType when the path does not exist in
// the structure; such positions constrain nothing.
type QC []hpsg.TypeID

// Types is the part of the type hierarchy quickcheck needs: greatest lower
// bounds and the subtype relation.
type Types interface {
	// GLB returns the greatest lower bound of a and b, false if the two
	// types are incompatible.
	GLB(a, b hpsg.TypeID) (hpsg.TypeID, bool)

	// SubtypeOf returns true if a is a (non-strict) subtype of b.
	SubtypeOf(a, b hpsg.TypeID) bool
}

// QCCompatibleUnif returns true if the two vectors may belong to unifiable
// structures: at every position the glb of the two types must exist (or one
// of them is undefined). Vectors of different length compare only over the
// common prefix.
func QCCompatibleUnif(h Types, a, b QC) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == hpsg.NoType || b[i] == hpsg.NoType {
			continue
		}
		if _, ok := h.GLB(a[i], b[i]); !ok {
			return false
		}
	}
	return true
}

// QCCompatibleSubs refines the subsumption flags per direction: forward
// (a subsumes b) survives only if at every position b's type is a subtype
// of a's, backward conversely. The incoming flags act as a mask, so callers
// can skip directions the rule filter has already excluded.
func QCCompatibleSubs(h Types, a, b QC, forward, backward bool) (bool, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n && (forward || backward); i++ {
		if a[i] == hpsg.NoType || b[i] == hpsg.NoType {
			continue
		}
		if a[i] == b[i] {
			continue
		}
		if forward && !h.SubtypeOf(b[i], a[i]) {
			forward = false
		}
		if backward && !h.SubtypeOf(a[i], b[i]) {
			backward = false
		}
	}
	return forward, backward
}
