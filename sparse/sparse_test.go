package sparse

import "testing"

func TestBitMatrix(t *testing.T) {
	m := NewBitMatrix(10, 10)
	if m.M() != 10 || m.N() != 10 {
		t.Fatalf("matrix dimensions wrong")
	}
	m.Or(2, 3, 1<<0)
	m.Or(2, 3, 1<<2)
	m.Or(7, 1, 1<<1)
	if m.EntryCount() != 2 {
		t.Errorf("expected 2 entries, got %d", m.EntryCount())
	}
	if m.Mask(2, 3) != 0b101 {
		t.Errorf("mask at (2,3) = %b, want 101", m.Mask(2, 3))
	}
	if !m.Bit(2, 3, 0) || m.Bit(2, 3, 1) || !m.Bit(2, 3, 2) {
		t.Errorf("bit access wrong at (2,3)")
	}
	if m.Mask(3, 2) != 0 {
		t.Errorf("empty position must yield 0")
	}
	if !m.Bit(7, 1, 1) {
		t.Errorf("bit access wrong at (7,1)")
	}
}

func TestBitMatrixInsertionOrderIndependent(t *testing.T) {
	m1 := NewBitMatrix(5, 5)
	m2 := NewBitMatrix(5, 5)
	positions := [][2]int{{4, 4}, {0, 0}, {2, 1}, {1, 2}, {2, 3}}
	for _, p := range positions {
		m1.Or(p[0], p[1], 1)
	}
	for i := len(positions) - 1; i >= 0; i-- {
		m2.Or(positions[i][0], positions[i][1], 1)
	}
	for _, p := range positions {
		if m1.Mask(p[0], p[1]) != m2.Mask(p[0], p[1]) {
			t.Errorf("insertion order changed lookup at %v", p)
		}
	}
}
