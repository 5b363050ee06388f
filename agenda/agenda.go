/*
Package agenda implements the priority queues of pending parse tasks.

Two implementations are provided: the exhaustive agenda, a classical
max-heap over task priorities, and a locally capped agenda which limits the
number of tasks keyed at each chart vertex (used for chart pruning).

Tasks are consumed in descending priority order; ties break by insertion
order, so runs are deterministic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package agenda

import (
	"math"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hpsg.parse'.
func tracer() tracing.Trace {
	return tracing.Select("hpsg.parse")
}

// Task is a pending combination of chart items, to be executed when popped
// from the agenda.
type Task interface {
	// Priority is the task's score; higher runs earlier. Must be finite:
	// NaN priorities are rejected at insertion.
	Priority() float64

	// KeyVertex is the chart vertex the task is keyed at, consulted by the
	// locally capped agenda.
	KeyVertex() int
}

// Agenda is a priority queue of tasks.
type Agenda interface {
	Push(t Task)
	Pop() Task // nil when empty
	Empty() bool
	Len() int
}

// entry wraps a task with its insertion sequence number for stable
// tie-breaking.
type entry struct {
	task Task
	seq  int
}

func compareEntries(a, b interface{}) int {
	ea, eb := a.(entry), b.(entry)
	switch {
	case ea.task.Priority() > eb.task.Priority():
		return -1
	case ea.task.Priority() < eb.task.Priority():
		return 1
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	}
	return 0
}

// Exhaustive is the default agenda: a binary max-heap keyed by task
// priority.
type Exhaustive struct {
	heap *binaryheap.Heap
	seq  int
}

// NewExhaustive creates an empty exhaustive agenda.
func NewExhaustive() *Exhaustive {
	return &Exhaustive{heap: binaryheap.NewWith(compareEntries)}
}

// Push inserts a task. Tasks with NaN priority are rejected.
func (a *Exhaustive) Push(t Task) {
	if math.IsNaN(t.Priority()) {
		tracer().Errorf("rejecting task with NaN priority")
		return
	}
	a.heap.Push(entry{task: t, seq: a.seq})
	a.seq++
}

// Pop removes and returns the highest-priority task, nil when the agenda
// is empty.
func (a *Exhaustive) Pop() Task {
	v, ok := a.heap.Pop()
	if !ok {
		return nil
	}
	return v.(entry).task
}

// Empty returns true if no tasks are pending.
func (a *Exhaustive) Empty() bool { return a.heap.Empty() }

// Len returns the number of pending tasks.
func (a *Exhaustive) Len() int { return a.heap.Size() }

// LocalCap is an agenda for chart pruning: at most cap tasks are kept per
// chart vertex; pushing onto a full vertex evicts the lowest-priority task
// of that vertex.
type LocalCap struct {
	cap      int
	vertices [][]entry // sorted descendingly per vertex
	seq      int
	size     int
}

// NewLocalCap creates a locally capped agenda for a chart with maxVertex+1
// vertices.
func NewLocalCap(cap int, maxVertex int) *LocalCap {
	return &LocalCap{
		cap:      cap,
		vertices: make([][]entry, maxVertex+1),
	}
}

// Push inserts a task at its key vertex, evicting the cell's weakest task
// when the cap is exceeded. Tasks with NaN priority are rejected.
func (a *LocalCap) Push(t Task) {
	if math.IsNaN(t.Priority()) {
		tracer().Errorf("rejecting task with NaN priority")
		return
	}
	v := t.KeyVertex()
	if v < 0 || v >= len(a.vertices) {
		v = len(a.vertices) - 1
	}
	cell := a.vertices[v]
	e := entry{task: t, seq: a.seq}
	a.seq++
	at := len(cell)
	for i := range cell {
		if compareEntries(e, cell[i]) < 0 {
			at = i
			break
		}
	}
	cell = append(cell, entry{})
	copy(cell[at+1:], cell[at:])
	cell[at] = e
	a.size++
	if len(cell) > a.cap {
		cell = cell[:a.cap]
		a.size--
	}
	a.vertices[v] = cell
}

// Pop removes and returns the globally best task.
func (a *LocalCap) Pop() Task {
	best := -1
	for v, cell := range a.vertices {
		if len(cell) == 0 {
			continue
		}
		if best < 0 || compareEntries(cell[0], a.vertices[best][0]) < 0 {
			best = v
		}
	}
	if best < 0 {
		return nil
	}
	e := a.vertices[best][0]
	a.vertices[best] = a.vertices[best][1:]
	a.size--
	return e.task
}

// Empty returns true if no tasks are pending.
func (a *LocalCap) Empty() bool { return a.size == 0 }

// Len returns the number of pending tasks.
func (a *LocalCap) Len() int { return a.size }
