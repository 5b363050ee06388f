package hpsg

import "testing"

func TestPathsCompatible(t *testing.T) {
	all := Paths{}
	p12 := NewPaths(1, 2)
	p23 := NewPaths(2, 3)
	p3 := NewPaths(3)
	if !all.Compatible(p12) || !p12.Compatible(all) {
		t.Errorf("unrestricted paths must be compatible with everything")
	}
	if !p12.Compatible(p23) {
		t.Errorf("{1,2} and {2,3} intersect")
	}
	if p12.Compatible(p3) {
		t.Errorf("{1,2} and {3} do not intersect")
	}
}

func TestPathsCommon(t *testing.T) {
	p12 := NewPaths(1, 2)
	p23 := NewPaths(2, 3)
	common := p12.Common(p23)
	if got := common.IDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("common paths = %v, want [2]", got)
	}
	if got := (Paths{}).Common(p12).IDs(); len(got) != 2 {
		t.Errorf("common with unrestricted = %v, want {1,2}", got)
	}
}

func TestSpan(t *testing.T) {
	s := Span{2, 5}
	if s.From() != 2 || s.To() != 5 || s.Len() != 3 {
		t.Errorf("span accessors wrong: %v", s)
	}
	e := s.Extend(Span{0, 3})
	if e.From() != 0 || e.To() != 5 {
		t.Errorf("extend wrong: %v", e)
	}
	if s.String() != "(2…5)" {
		t.Errorf("span string = %s", s.String())
	}
}
