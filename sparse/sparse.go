/*
Package sparse implements a simple type for sparse integer matrices.
It is mainly used for the parser's precomputed filter tables: the rule
filter stores a bitmask of admissible argument positions per rule pair, the
subsumption filter a pair of direction flags.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
   https://www.coin-or.org/Ipopt/documentation/node38.html


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import "fmt"

// BitMatrix is a type for a sparse matrix of int32 bitmasks. Construct with
//
//     M := NewBitMatrix(10, 10)
//
// Now
//
//     M.Or(2, 3, 1<<0)               // set a bit
//     v := M.Mask(2, 3)              // returns the mask, 0 if empty
//     cnt := M.EntryCount()          // returns 1 (one position set)
//
// Bits cannot be cleared. Space for zero masks is not re-claimed.
type BitMatrix struct {
	entries []triplet
	rowcnt  int
	colcnt  int
}

// Triplet values to store
type triplet struct {
	row, col int
	mask     int32
}

// NewBitMatrix creates a new bitmask matrix, size m x n.
func NewBitMatrix(m, n int) *BitMatrix {
	return &BitMatrix{
		entries: []triplet{},
		rowcnt:  m,
		colcnt:  n,
	}
}

// M returns the row count.
func (m *BitMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *BitMatrix) N() int {
	return m.colcnt
}

// EntryCount returns the number of non-zero positions in the matrix.
func (m *BitMatrix) EntryCount() int {
	return len(m.entries)
}

// Mask returns the bitmask at position (i,j), 0 for an empty position.
func (m *BitMatrix) Mask(i, j int) int32 {
	for _, t := range m.entries {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.mask
			}
			break
		}
	}
	return 0
}

// Bit returns true if bit b is set at position (i,j).
func (m *BitMatrix) Bit(i, j int, b uint) bool {
	return m.Mask(i, j)&(1<<b) != 0
}

// Or merges mask into the bitmask at position (i,j).
func (m *BitMatrix) Or(i, j int, mask int32) *BitMatrix {
	at := 0 // will be position of new entry
	for k, t := range m.entries {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) { // mask already present
				m.entries[k].mask |= mask
				return m // and done
			}
			break // no old entry present
		}
		at++
	}
	tnew := triplet{row: i, col: j, mask: mask}
	// the following 3 lines have to work for at being the right edge or not
	m.entries = append(m.entries, tnew)    // make room
	copy(m.entries[at+1:], m.entries[at:]) // copy remainder one index to right
	m.entries[at] = tnew                   // if not append-case: insert new triplet
	return m
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}

func (t triplet) String() string {
	return fmt.Sprintf("(%d,%d)=%b", t.row, t.col, t.mask)
}
