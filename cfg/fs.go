/*
Package cfg provides a minimal in-memory implementation of the grammar and
unifier interfaces, over atomic categories with a small type hierarchy.

It is the reference backend for tests, examples and the demo REPL: rules
carry their daughters as ARG attributes of a template structure, passive
results delete the ARG attributes again, and unification degenerates to
greatest-lower-bound computation on category types. Real typed-dag
unifiers plug into the same interfaces from outside this module.

Grammars are assembled with a fluent builder:

    b := cfg.NewGrammarBuilder("toy")
    b.LHS("s", "S").N("NP").N("VP").End()
    b.LHS("vp", "VP").N("V").N("NP").End()
    b.LHS("np", "NP").N("N").End()
    b.Word("dog", "N")
    b.Root("S")
    g, err := b.Grammar()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfg

import (
	"fmt"
	"sort"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/tfs"
)

// ArgAttr returns the attribute code of the i-th argument slot (1-based)
// of a rule template.
func ArgAttr(i int) hpsg.AttrID {
	return hpsg.AttrID(i)
}

// node is the feature structure of this backend: a category type with an
// optional set of attribute children (the ARG slots of rule templates).
type node struct {
	typ   hpsg.TypeID
	attrs []attrval // sorted by attr code
}

type attrval struct {
	attr hpsg.AttrID
	val  *node
}

// Type returns the root type of the structure.
func (n *node) Type() hpsg.TypeID { return n.typ }

func (n *node) find(attr hpsg.AttrID) *node {
	for _, av := range n.attrs {
		if av.attr == attr {
			return av.val
		}
	}
	return nil
}

func (n *node) set(attr hpsg.AttrID, val *node) {
	for i, av := range n.attrs {
		if av.attr == attr {
			n.attrs[i].val = val
			return
		}
	}
	n.attrs = append(n.attrs, attrval{attr, val})
	sort.Slice(n.attrs, func(i, j int) bool { return n.attrs[i].attr < n.attrs[j].attr })
}

func (n *node) clone() *node {
	c := &node{typ: n.typ}
	if n.attrs != nil {
		c.attrs = make([]attrval, len(n.attrs))
		for i, av := range n.attrs {
			c.attrs[i] = attrval{av.attr, av.val.clone()}
		}
	}
	return c
}

func (n *node) String() string {
	if len(n.attrs) == 0 {
		return fmt.Sprintf("#%d", n.typ)
	}
	s := fmt.Sprintf("#%d[", n.typ)
	for i, av := range n.attrs {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d:%s", av.attr, av.val)
	}
	return s + "]"
}

// Hierarchy is the closed-world type hierarchy of a grammar: named types
// with explicit supertype links, rooted in *top*.
type Hierarchy struct {
	names   []string
	byName  map[string]hpsg.TypeID
	parents [][]hpsg.TypeID
	// ancestors[t] holds t itself and all transitive supertypes
	ancestors []map[hpsg.TypeID]bool
}

// Top is the most general type; every type is a subtype of it.
const Top hpsg.TypeID = 0

// newHierarchy creates a hierarchy containing only *top*.
func newHierarchy() *Hierarchy {
	h := &Hierarchy{byName: make(map[string]hpsg.TypeID)}
	h.add("*top*")
	return h
}

func (h *Hierarchy) add(name string, parents ...hpsg.TypeID) hpsg.TypeID {
	if t, ok := h.byName[name]; ok {
		return t
	}
	t := hpsg.TypeID(len(h.names))
	h.names = append(h.names, name)
	h.byName[name] = t
	if len(parents) == 0 && t != Top {
		parents = []hpsg.TypeID{Top}
	}
	h.parents = append(h.parents, parents)
	anc := map[hpsg.TypeID]bool{t: true}
	for _, p := range parents {
		for a := range h.ancestors[p] {
			anc[a] = true
		}
	}
	h.ancestors = append(h.ancestors, anc)
	return t
}

// Lookup returns the type code for a name.
func (h *Hierarchy) Lookup(name string) (hpsg.TypeID, bool) {
	t, ok := h.byName[name]
	return t, ok
}

// Name returns the name of a type code.
func (h *Hierarchy) Name(t hpsg.TypeID) string {
	if t < 0 || int(t) >= len(h.names) {
		return fmt.Sprintf("type(%d)", t)
	}
	return h.names[t]
}

// SubtypeOf returns true if a is a (non-strict) subtype of b.
func (h *Hierarchy) SubtypeOf(a, b hpsg.TypeID) bool {
	if a < 0 || b < 0 || int(a) >= len(h.ancestors) {
		return false
	}
	return h.ancestors[a][b]
}

// GLB returns the greatest lower bound of a and b: the most general common
// subtype. False if the types are incompatible.
func (h *Hierarchy) GLB(a, b hpsg.TypeID) (hpsg.TypeID, bool) {
	if h.SubtypeOf(a, b) {
		return a, true
	}
	if h.SubtypeOf(b, a) {
		return b, true
	}
	// most general type that is a subtype of both
	var common []hpsg.TypeID
	for t := range h.names {
		tt := hpsg.TypeID(t)
		if h.SubtypeOf(tt, a) && h.SubtypeOf(tt, b) {
			common = append(common, tt)
		}
	}
	for _, cand := range common {
		isGLB := true
		for _, other := range common {
			if !h.SubtypeOf(other, cand) {
				isGLB = false
				break
			}
		}
		if isGLB {
			return cand, true
		}
	}
	return hpsg.NoType, false
}

// Unifier implements tfs.Unifier over atomic-category structures.
type Unifier struct {
	hierarchy *Hierarchy
	templates map[hpsg.TypeID]*node

	qcPathsUnif [][]hpsg.AttrID
	qcPathsSubs [][]hpsg.AttrID

	generation uint64
	stats      tfs.UnifierStats
}

func newUnifier(h *Hierarchy) *Unifier {
	return &Unifier{
		hierarchy:   h,
		templates:   make(map[hpsg.TypeID]*node),
		qcPathsUnif: [][]hpsg.AttrID{{}}, // root type only, by default
		qcPathsSubs: [][]hpsg.AttrID{{}},
		generation:  1,
	}
}

// Hierarchy returns the type hierarchy of this unifier.
func (u *Unifier) Hierarchy() *Hierarchy { return u.hierarchy }

func (u *Unifier) registerTemplate(t hpsg.TypeID, template *node) {
	u.templates[t] = template
}

// Instantiate returns a fresh structure for a type: a copy of the
// registered template, or a bare node of the type.
func (u *Unifier) Instantiate(t hpsg.TypeID) tfs.FS {
	if template, ok := u.templates[t]; ok {
		return template.clone()
	}
	if t < 0 || int(t) >= len(u.hierarchy.names) {
		return nil
	}
	return &node{typ: t}
}

// NthArg returns the i-th ARG slot of a rule structure.
func (u *Unifier) NthArg(f tfs.FS, i int) tfs.FS {
	n, ok := f.(*node)
	if !ok || n == nil {
		return nil
	}
	arg := n.find(ArgAttr(i))
	if arg == nil {
		return nil
	}
	return arg
}

// unifyNodes unifies src into dst, in place. dst belongs to a structure
// under construction; src is never modified.
func (u *Unifier) unifyNodes(dst, src *node) bool {
	glb, ok := u.hierarchy.GLB(dst.typ, src.typ)
	if !ok {
		return false
	}
	dst.typ = glb
	for _, av := range src.attrs {
		if own := dst.find(av.attr); own != nil {
			if !u.unifyNodes(own, av.val) {
				return false
			}
		} else {
			dst.set(av.attr, av.val.clone())
		}
	}
	return true
}

// Unify unifies sub into the substructure arg of root and returns root,
// nil on failure.
func (u *Unifier) Unify(root, arg, sub tfs.FS) tfs.FS {
	rn, ok1 := root.(*node)
	an, ok2 := arg.(*node)
	sn, ok3 := sub.(*node)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	if !u.unifyNodes(an, sn) {
		u.stats.UnifyFail++
		return nil
	}
	u.stats.UnifySucc++
	return rn
}

// UnifyNP is the non-permanent variant; for this backend it is the same
// operation, as structures never live in an arena.
func (u *Unifier) UnifyNP(root, arg, sub tfs.FS) tfs.FS {
	return u.Unify(root, arg, sub)
}

// UnifyRestrict unifies and deletes the attributes in del from the result.
func (u *Unifier) UnifyRestrict(root, arg, sub tfs.FS, del []hpsg.AttrID) tfs.FS {
	res := u.Unify(root, arg, sub)
	if res == nil {
		return nil
	}
	return u.Restrict(res, del)
}

// Copy makes a deep copy of f.
func (u *Unifier) Copy(f tfs.FS) tfs.FS {
	n, ok := f.(*node)
	if !ok || n == nil {
		return nil
	}
	return n.clone()
}

// Restrict returns a copy of f with the attributes in del removed, at any
// level.
func (u *Unifier) Restrict(f tfs.FS, del []hpsg.AttrID) tfs.FS {
	n, ok := f.(*node)
	if !ok || n == nil {
		return nil
	}
	deleted := make(map[hpsg.AttrID]bool, len(del))
	for _, a := range del {
		deleted[a] = true
	}
	var restrict func(n *node) *node
	restrict = func(n *node) *node {
		c := &node{typ: n.typ}
		for _, av := range n.attrs {
			if !deleted[av.attr] {
				c.set(av.attr, restrict(av.val))
			}
		}
		return c
	}
	return restrict(n)
}

// Compatible returns true if a and b unify, without building a result.
func (u *Unifier) Compatible(a, b tfs.FS) bool {
	an, ok1 := a.(*node)
	bn, ok2 := b.(*node)
	if !ok1 || !ok2 {
		return false
	}
	return u.compatibleNodes(an, bn)
}

func (u *Unifier) compatibleNodes(a, b *node) bool {
	if _, ok := u.hierarchy.GLB(a.typ, b.typ); !ok {
		return false
	}
	for _, av := range a.attrs {
		if bv := b.find(av.attr); bv != nil {
			if !u.compatibleNodes(av.val, bv) {
				return false
			}
		}
	}
	return true
}

// Subsumes computes both subsumption directions in one pass.
func (u *Unifier) Subsumes(a, b tfs.FS) (forward, backward bool) {
	an, ok1 := a.(*node)
	bn, ok2 := b.(*node)
	if !ok1 || !ok2 {
		return false, false
	}
	forward, backward = u.subsumesNodes(an, bn)
	if forward || backward {
		u.stats.SubsSucc++
	} else {
		u.stats.SubsFail++
	}
	return
}

// a subsumes b if b's type is a subtype of a's and every constraint of a
// is matched by a more specific one in b.
func (u *Unifier) subsumesNodes(a, b *node) (fwd, bwd bool) {
	fwd, bwd = true, true
	if !u.hierarchy.SubtypeOf(b.typ, a.typ) {
		fwd = false
	}
	if !u.hierarchy.SubtypeOf(a.typ, b.typ) {
		bwd = false
	}
	for _, av := range a.attrs {
		bv := b.find(av.attr)
		if bv == nil {
			fwd = false
			continue
		}
		f, w := u.subsumesNodes(av.val, bv)
		fwd = fwd && f
		bwd = bwd && w
	}
	if bwd {
		for _, bv := range b.attrs {
			if a.find(bv.attr) == nil {
				bwd = false
				break
			}
		}
	}
	return
}

// SetQCPaths configures the quickcheck paths per direction.
func (u *Unifier) SetQCPaths(unif, subs [][]hpsg.AttrID) {
	u.qcPathsUnif = unif
	u.qcPathsSubs = subs
}

func (u *Unifier) qcVector(f tfs.FS, paths [][]hpsg.AttrID) tfs.QC {
	n, ok := f.(*node)
	if !ok || n == nil {
		return nil
	}
	qc := make(tfs.QC, len(paths))
	for i, path := range paths {
		at := n
		for _, attr := range path {
			if at = at.find(attr); at == nil {
				break
			}
		}
		if at == nil {
			qc[i] = hpsg.NoType
		} else {
			qc[i] = at.typ
		}
	}
	return qc
}

// QCVectorUnif extracts the unification quickcheck vector of f.
func (u *Unifier) QCVectorUnif(f tfs.FS) tfs.QC {
	return u.qcVector(f, u.qcPathsUnif)
}

// QCVectorSubs extracts the subsumption quickcheck vector of f.
func (u *Unifier) QCVectorSubs(f tfs.FS) tfs.QC {
	return u.qcVector(f, u.qcPathsSubs)
}

// Generation returns the current unification generation.
func (u *Unifier) Generation() uint64 { return u.generation }

// Mark opens an allocation scope and advances the generation. Release and
// promotion are no-ops here, since memory is garbage collected, but the
// generation discipline is kept so hyperactive item recreation is
// exercised the same way as with an arena-backed unifier.
func (u *Unifier) Mark() tfs.AllocScope {
	u.generation++
	return allocScope{}
}

type allocScope struct{}

func (allocScope) Release() {}
func (allocScope) Promote() {}

// Stats returns the unification counters.
func (u *Unifier) Stats() tfs.UnifierStats { return u.stats }

// ResetStats clears the unification counters.
func (u *Unifier) ResetStats() { u.stats = tfs.UnifierStats{} }
