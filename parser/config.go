package parser

import (
	"time"

	"github.com/npillmayer/hpsg/grammar"
)

// Packing is the bitmask selecting the ambiguity packing mode.
type Packing uint8

// Packing mode bits.
const (
	PackEquivalence Packing = 1 << 0 // pack subsumption-equivalent items
	PackProactive   Packing = 1 << 1 // pack items subsumed by an older one
	PackRetroactive Packing = 1 << 2 // re-pack older items under a newer one
	PackSelective   Packing = 1 << 3 // use selective (n-best) unpacking
	PackNoUnpack    Packing = 1 << 7 // build the forest, skip unpacking
)

// PackAll enables equivalence, proactive and retroactive packing.
const PackAll = PackEquivalence | PackProactive | PackRetroactive

// Config carries the recognised parser options.
type Config struct {
	// Packing selects the ambiguity packing mode; 0 disables packing.
	// Packing with unpacking implies exhaustive parsing regardless of
	// NSolutions.
	Packing Packing

	// NSolutions stops the parse after this many trees in non-packing
	// mode, and bounds selective unpacking. 0 means unlimited.
	NSolutions int

	// Hyper enables hyperactive scheduling: active items of hyperactive
	// rules keep an uncopied temporary structure which is recreated on
	// demand.
	Hyper bool

	// NQCUnif and NQCSubs switch the quickcheck per direction: 0 disables
	// it, any other value enables it. The value does not set the vector
	// length; that is the number of quickcheck paths of the unifier.
	NQCUnif int
	NQCSubs int

	// Key names an argument ordering. The parser does not read it; the
	// filling order of each rule is the one the grammar built it with.
	Key grammar.KeyOrder

	// Shaping enables the early filter rejecting rules whose remaining
	// arity does not fit inside the chart.
	Shaping bool

	// Lattice treats the input as a word lattice and enforces path-set
	// compatibility between combined items.
	Lattice bool

	// Filter enables the precomputed rule filter.
	Filter bool

	// ChartPruning caps the number of agenda tasks per chart vertex;
	// 0 uses the exhaustive agenda.
	ChartPruning int

	// GPLevel is the grandparent depth for selective unpacking scoring.
	GPLevel int

	// Resource caps; zero values mean unlimited.
	PEdgeLimit int
	MemLimit   int64
	Timeout    time.Duration
}

// DefaultConfig returns the standard settings: hyperactive parsing,
// shaping and the rule filter on, no packing, no limits.
func DefaultConfig() Config {
	return Config{
		Hyper:   true,
		Shaping: true,
		Filter:  true,
		Key:     grammar.KeyDriven,
	}
}

func (c Config) packing() bool {
	return c.Packing != 0
}
