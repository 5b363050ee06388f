package chart

import (
	"github.com/npillmayer/hpsg"
)

// Chart is the indexed store of all items of a parse, keyed by vertex span
// and activity. Index lists preserve insertion order, so iteration over
// the chart is deterministic.
type Chart struct {
	owner *ItemOwner

	items    []Item // all items in insertion order
	trees    []Item // root-compatible items found during parsing
	readings []Item // best-ranked results after unpacking

	pStart [][]Item   // passive items by start vertex
	pEnd   [][]Item   // passive items by end vertex
	pSpan  [][][]Item // passive items by (start, span)
	aStart [][]Item   // active items by start vertex (left-extending)
	aEnd   [][]Item   // active items by end vertex

	pedges int
}

// New creates a chart for len words; the chart has len+1 vertices.
func New(len int, owner *ItemOwner) *Chart {
	c := &Chart{
		owner:  owner,
		pStart: make([][]Item, len+1),
		pEnd:   make([][]Item, len+1),
		aStart: make([][]Item, len+1),
		aEnd:   make([][]Item, len+1),
		pSpan:  make([][][]Item, len+1),
	}
	for i := 0; i <= len; i++ {
		c.pSpan[i] = make([][]Item, len+1-i)
	}
	return c
}

// Owner returns the item owner of this parse session.
func (c *Chart) Owner() *ItemOwner { return c.owner }

// Length returns the number of chart vertices.
func (c *Chart) Length() int { return len(c.pStart) }

// Rightmost returns the number of the rightmost chart vertex.
func (c *Chart) Rightmost() int { return c.Length() - 1 }

// PEdges returns the number of passive edges in the chart.
func (c *Chart) PEdges() int { return c.pedges }

// Add inserts an item into the appropriate indices, depending on its
// activity.
func (c *Chart) Add(it Item) {
	tracer().Debugf("chart add %v", it)
	c.items = append(c.items, it)
	if it.Passive() {
		c.pStart[it.Start()] = append(c.pStart[it.Start()], it)
		c.pEnd[it.End()] = append(c.pEnd[it.End()], it)
		c.pSpan[it.Start()][it.SpanLen()] = append(c.pSpan[it.Start()][it.SpanLen()], it)
		c.pedges++
	} else {
		if it.LeftExtending() {
			c.aStart[it.Start()] = append(c.aStart[it.Start()], it)
		} else {
			c.aEnd[it.End()] = append(c.aEnd[it.End()], it)
		}
	}
}

// Remove deletes the items in the set from the chart.
func (c *Chart) Remove(toDelete map[Item]bool) {
	c.items = removeContained(c.items, toDelete)
	for it := range toDelete {
		if it.Passive() {
			c.pStart[it.Start()] = removeItem(c.pStart[it.Start()], it)
			c.pEnd[it.End()] = removeItem(c.pEnd[it.End()], it)
			span := c.pSpan[it.Start()]
			span[it.SpanLen()] = removeItem(span[it.SpanLen()], it)
			c.pedges--
		} else {
			if it.LeftExtending() {
				c.aStart[it.Start()] = removeItem(c.aStart[it.Start()], it)
			} else {
				c.aEnd[it.End()] = removeItem(c.aEnd[it.End()], it)
			}
		}
	}
}

func removeContained(items []Item, toDelete map[Item]bool) []Item {
	out := items[:0]
	for _, it := range items {
		if !toDelete[it] {
			out = append(out, it)
		}
	}
	return out
}

func removeItem(items []Item, it Item) []Item {
	out := items[:0]
	for _, x := range items {
		if x != it {
			out = append(out, x)
		}
	}
	return out
}

// Items returns all chart items in insertion order.
func (c *Chart) Items() []Item { return c.items }

// Trees returns the root-compatible items recorded during parsing.
func (c *Chart) Trees() []Item { return c.trees }

// AddTree records a root-compatible item.
func (c *Chart) AddTree(it Item) { c.trees = append(c.trees, it) }

// Readings returns the results of the parse after unpacking.
func (c *Chart) Readings() []Item { return c.readings }

// SetReadings stores the results of the parse.
func (c *Chart) SetReadings(items []Item) { c.readings = items }

// PassivesStartingAt returns the passive items starting at vertex i.
func (c *Chart) PassivesStartingAt(i int) []Item { return c.pStart[i] }

// PassivesEndingAt returns the passive items ending at vertex i.
func (c *Chart) PassivesEndingAt(i int) []Item { return c.pEnd[i] }

// PassivesSpanning returns the passive items covering exactly (start, end).
func (c *Chart) PassivesSpanning(start, end int) []Item {
	return c.pSpan[start][end-start]
}

// ActivesStartingAt returns the left-extending active items starting at
// vertex i.
func (c *Chart) ActivesStartingAt(i int) []Item { return c.aStart[i] }

// ActivesEndingAt returns the right-extending active items ending at
// vertex i.
func (c *Chart) ActivesEndingAt(i int) []Item { return c.aEnd[i] }

// AdjacentActives returns the candidate active items adjacent to a passive
// item: left-extending actives starting at the passive's end, then actives
// ending at the passive's start.
func (c *Chart) AdjacentActives(passive Item) []Item {
	starts := c.aStart[passive.End()]
	ends := c.aEnd[passive.Start()]
	out := make([]Item, 0, len(starts)+len(ends))
	out = append(out, starts...)
	out = append(out, ends...)
	return out
}

// AdjacentPassives returns the passive items adjacent to an active item on
// its open end.
func (c *Chart) AdjacentPassives(active Item) []Item {
	if active.LeftExtending() {
		return c.pEnd[active.Start()]
	}
	return c.pStart[active.End()]
}

// TopoPassives returns all passive items in topological order, i.e. those
// with smaller start vertex first.
func (c *Chart) TopoPassives() []Item {
	var out []Item
	for _, list := range c.pStart {
		out = append(out, list...)
	}
	return out
}

// Connected returns true if there is a path from the first to the last
// vertex using only passive items for which valid returns true. Used to
// decide where lexical gaps are.
func (c *Chart) Connected(valid func(Item) bool) bool {
	reached := make([]bool, c.Rightmost()+1)
	reached[0] = true
	queue := []int{0}
	for !reached[c.Rightmost()] && len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, it := range c.pStart[pos] {
			if !reached[it.End()] && valid(it) {
				reached[it.End()] = true
				queue = append(queue, it.End())
			}
		}
	}
	return reached[c.Rightmost()]
}

// ShortestPath computes a best path of passive items from the first to the
// last vertex, based on the item scores. Vertices without outgoing items
// are bridged by gaps. Used to assemble the best partial results when no
// complete reading was found.
func (c *Chart) ShortestPath(valid func(Item) bool) []Item {
	n := c.Rightmost()
	const gapCost = 1000.0
	cost := make([]float64, n+1)
	via := make([]Item, n+1)
	from := make([]int, n+1)
	// relax in topological vertex order; item edges always go left to right
	for v := 1; v <= n; v++ {
		// bridging gap from the previous vertex
		cost[v] = cost[v-1] + gapCost
		via[v] = nil
		from[v] = v - 1
		for _, it := range c.pEnd[v] {
			if !valid(it) {
				continue
			}
			w := cost[it.Start()] + 1 - it.Score()
			if w < cost[v] {
				cost[v] = w
				via[v] = it
				from[v] = it.Start()
			}
		}
	}
	var path []Item
	for v := n; v > 0; v = from[v] {
		if via[v] != nil {
			path = append([]Item{via[v]}, path...)
		}
	}
	return path
}

// Statistics are aggregate counts over the chart's items.
type Statistics struct {
	MEdges  int // items with pending inflection rules
	PEdges  int // passive edges
	AEdges  int // active edges
	RPEdges int // passive edges contributing to a result
	RAEdges int // active edges contributing to a result
}

// GetStatistics counts the chart's edges by kind and result contribution.
func (c *Chart) GetStatistics() Statistics {
	var s Statistics
	for _, it := range c.items {
		switch {
		case it.Trait() == hpsg.InflTrait:
			s.MEdges++
		case it.Passive():
			s.PEdges++
			if it.core().resultContrib {
				s.RPEdges++
			}
		default:
			s.AEdges++
			if it.core().resultContrib {
				s.RAEdges++
			}
		}
	}
	return s
}
