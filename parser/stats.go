package parser

import (
	"time"

	"github.com/npillmayer/hpsg/tfs"
)

// Stats collects the per-parse statistics.
type Stats struct {
	ID int // parse id, as passed to Analyze

	Trees    int // root-compatible items found
	Readings int // results after unpacking

	// Chart edges by kind.
	PEdges  int // passive edges
	AEdges  int // active edges
	MEdges  int // edges with pending inflection rules
	RPEdges int // passive edges contributing to a result
	RAEdges int // active edges contributing to a result

	// Task accounting.
	ExecutedTasks  int
	SucceededTasks int
	FilteredFI     int // tasks dropped by the rule filter
	FilteredQC     int // tasks dropped by the unification quickcheck

	// Subsumption filter accounting.
	FSubsFI int // packing candidates dropped by the subsumption filter
	FSubsQC int // packing candidates dropped by the subsumption quickcheck

	// Unifier counters.
	Unifications tfs.UnifierStats

	// Packing.
	PEquivalent  int
	PProactive   int
	PRetroactive int
	PFrozen      int

	// Unpacking.
	PFailures   int // failed re-unifications
	PHypotheses int // hypotheses built by the selective unpacker
	PUpedges    int // edges built while unpacking

	// Timing.
	FirstTree time.Duration // elapsed stage time when the first tree was found, -1 if none
	TCPU      time.Duration // parsing stage time
	UnpackCPU time.Duration // unpacking stage time
	Total     time.Duration
}

func newStats(id int) *Stats {
	return &Stats{ID: id, FirstTree: -1}
}
