package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/grammar"
)

func buildTestGrammar(t *testing.T) *G {
	b := NewGrammarBuilder("cfg-test")
	b.Type("N")
	b.Type("Nsub", "N")
	b.LHS("s", "S").N("NP").N("VP").End()
	b.LHS("np_n", "NP").N("N").End()
	b.LHS("vp_v", "VP").N("V").End()
	b.Root("S")
	b.Word("dog", "N")
	b.Word("barks", "V")
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestHierarchy(t *testing.T) {
	g := buildTestGrammar(t)
	h := g.Hierarchy()
	n, ok := h.Lookup("N")
	require.True(t, ok)
	nsub, ok := h.Lookup("Nsub")
	require.True(t, ok)
	assert.True(t, h.SubtypeOf(nsub, n))
	assert.False(t, h.SubtypeOf(n, nsub))
	assert.True(t, h.SubtypeOf(n, Top))

	glb, ok := h.GLB(n, nsub)
	require.True(t, ok)
	assert.Equal(t, nsub, glb)

	v, _ := h.Lookup("V")
	_, ok = h.GLB(n, v)
	assert.False(t, ok, "unrelated categories must not have a glb")
}

func TestUnifyAndSubsume(t *testing.T) {
	g := buildTestGrammar(t)
	u := g.unifier
	h := g.Hierarchy()
	n, _ := h.Lookup("N")
	nsub, _ := h.Lookup("Nsub")

	a := u.Instantiate(n)
	b := u.Instantiate(nsub)
	assert.True(t, u.Compatible(a, b))

	fwd, bwd := u.Subsumes(a, b)
	assert.True(t, fwd, "N subsumes Nsub")
	assert.False(t, bwd)

	fwd, bwd = u.Subsumes(a, u.Instantiate(n))
	assert.True(t, fwd && bwd, "identical categories are equivalent")
}

func TestRuleTemplates(t *testing.T) {
	g := buildTestGrammar(t)
	u := g.unifier
	r, ok := g.RuleByName("s")
	require.True(t, ok)
	assert.Equal(t, 2, r.Arity)

	f := r.Instantiate(u)
	require.NotNil(t, f)
	arg1 := u.NthArg(f, 1)
	require.NotNil(t, arg1)
	np, _ := g.Hierarchy().Lookup("NP")
	assert.Equal(t, np, arg1.Type())

	// filling both arguments and deleting the ARGs yields a bare S
	npn, _ := g.RuleByName("np_n")
	npfs := u.Restrict(npn.Instantiate(u), g.DeletedDaughters())
	f = u.UnifyNP(f, arg1, npfs)
	require.NotNil(t, f)
	vpv, _ := g.RuleByName("vp_v")
	vpfs := u.Restrict(vpv.Instantiate(u), g.DeletedDaughters())
	f = u.UnifyRestrict(f, u.NthArg(f, 2), vpfs, g.DeletedDaughters())
	require.NotNil(t, f)
	s, _ := g.Hierarchy().Lookup("S")
	assert.Equal(t, s, f.Type())
	root, ok := g.Root(f)
	assert.True(t, ok)
	assert.Equal(t, s, root)
}

func TestRuleFilter(t *testing.T) {
	g := buildTestGrammar(t)
	s, _ := g.RuleByName("s")
	npn, _ := g.RuleByName("np_n")
	vpv, _ := g.RuleByName("vp_v")
	assert.True(t, g.FilterCompatible(s, 1, npn), "NP result fits S's first argument")
	assert.True(t, g.FilterCompatible(s, 2, vpv), "VP result fits S's second argument")
	assert.False(t, g.FilterCompatible(s, 1, vpv), "VP result must not fit S's first argument")
	assert.False(t, g.FilterCompatible(npn, 1, s), "S result must not fit NP's argument")

	// lexical items carry no rule and always pass
	assert.True(t, g.FilterCompatible(s, 1, nil))
}

func TestSubsumptionFilter(t *testing.T) {
	g := buildTestGrammar(t)
	npn, _ := g.RuleByName("np_n")
	vpv, _ := g.RuleByName("vp_v")
	fwd, bwd := g.SubsumptionFilterCompatible(npn, npn)
	assert.True(t, fwd && bwd, "a rule is equivalent to itself")
	fwd, bwd = g.SubsumptionFilterCompatible(npn, vpv)
	assert.False(t, fwd || bwd, "unrelated results cannot subsume")
}

func TestLexicon(t *testing.T) {
	g := buildTestGrammar(t)
	entries := g.Entries("dog")
	require.Len(t, entries, 1)
	n, _ := g.Hierarchy().Lookup("N")
	assert.Equal(t, n, entries[0].Type)
	assert.Empty(t, g.Entries("unknown"))
}

func TestQCVectors(t *testing.T) {
	g := buildTestGrammar(t)
	u := g.unifier
	h := g.Hierarchy()
	n, _ := h.Lookup("N")
	nsub, _ := h.Lookup("Nsub")
	v, _ := h.Lookup("V")

	qcN := u.QCVectorUnif(u.Instantiate(n))
	qcNsub := u.QCVectorUnif(u.Instantiate(nsub))
	qcV := u.QCVectorUnif(u.Instantiate(v))
	assert.True(t, tfsCompatible(h, qcN, qcNsub))
	assert.False(t, tfsCompatible(h, qcN, qcV))
}

func tfsCompatible(h *Hierarchy, a, b []hpsg.TypeID) bool {
	for i := range a {
		if i >= len(b) {
			break
		}
		if a[i] == hpsg.NoType || b[i] == hpsg.NoType {
			continue
		}
		if _, ok := h.GLB(a[i], b[i]); !ok {
			return false
		}
	}
	return true
}

func TestFillOrders(t *testing.T) {
	r, err := grammar.NewRule(0, 1, "r", hpsg.SyntaxTrait, 3, 2, grammar.KeyDriven, true, false)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3}, r.ToFill)
	assert.False(t, r.LeftExtending())

	r, _ = grammar.NewRule(0, 1, "r", hpsg.SyntaxTrait, 3, 0, grammar.RightToLeft, true, false)
	assert.Equal(t, []int{3, 2, 1}, r.ToFill)

	r, _ = grammar.NewRule(0, 1, "r", hpsg.SyntaxTrait, 3, 0, grammar.LeftToRight, true, false)
	assert.Equal(t, []int{1, 2, 3}, r.ToFill)
	assert.True(t, r.LeftExtending())
}
