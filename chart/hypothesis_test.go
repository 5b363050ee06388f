package chart

import (
	"testing"
)

func TestAdvanceIndices(t *testing.T) {
	next := advanceIndices([]int{0, 2, 1})
	if len(next) != 3 {
		t.Fatalf("expected 3 neighbours, got %d", len(next))
	}
	want := [][]int{{1, 2, 1}, {0, 3, 1}, {0, 2, 2}}
	for i := range want {
		for j := range want[i] {
			if next[i][j] != want[i][j] {
				t.Errorf("neighbour %d = %v, want %v", i, next[i], want[i])
			}
		}
	}
}

func TestTrimPath(t *testing.T) {
	items := []Item{&InputItem{}, &InputItem{}, &InputItem{}}
	if got := TrimPath(items, 2); len(got) != 2 {
		t.Errorf("trim to 2 yields %d entries", len(got))
	}
	if got := TrimPath(items, 0); len(got) != 0 {
		t.Errorf("trim to 0 yields %d entries", len(got))
	}
	// the leftmost (oldest) entries are dropped
	trimmed := TrimPath(items, 1)
	if trimmed[0] != items[2] {
		t.Errorf("trim must keep the most recent entries")
	}
}

func TestDecompositionSeenSet(t *testing.T) {
	d := newDecomposition([]Item{&InputItem{}, &InputItem{}})
	if !d.markSeen([]int{0, 0}) {
		t.Errorf("first index vector must be fresh")
	}
	if d.markSeen([]int{0, 0}) {
		t.Errorf("repeated index vector must be rejected")
	}
	if !d.markSeen([]int{0, 1}) {
		t.Errorf("distinct index vector must be fresh")
	}
}

func TestPathKeysDiffer(t *testing.T) {
	a := itemPath{}
	i1, i2 := &InputItem{}, &InputItem{}
	i1.id, i2.id = 1, 2
	b := itemPath{i1}
	c := itemPath{i2}
	if a.key() == b.key() || b.key() == c.key() {
		t.Errorf("distinct paths must map to distinct keys")
	}
	if b.key() != (itemPath{i1}).key() {
		t.Errorf("equal paths must map to equal keys")
	}
}
