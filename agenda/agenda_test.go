package agenda

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type testTask struct {
	prio   float64
	vertex int
	tag    string
}

func (t *testTask) Priority() float64 { return t.prio }
func (t *testTask) KeyVertex() int    { return t.vertex }

func TestExhaustiveOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	a := NewExhaustive()
	a.Push(&testTask{prio: 1.0, tag: "low"})
	a.Push(&testTask{prio: 3.0, tag: "high"})
	a.Push(&testTask{prio: 2.0, tag: "mid"})
	var tags []string
	for !a.Empty() {
		tags = append(tags, a.Pop().(*testTask).tag)
	}
	want := []string{"high", "mid", "low"}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("pop order %v, want %v", tags, want)
			break
		}
	}
}

func TestExhaustiveTiesAreFIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	a := NewExhaustive()
	for _, tag := range []string{"a", "b", "c", "d"} {
		a.Push(&testTask{prio: 1.0, tag: tag})
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		if got := a.Pop().(*testTask).tag; got != want {
			t.Errorf("tie-breaking not FIFO: got %s, want %s", got, want)
		}
	}
}

func TestNaNRejected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	a := NewExhaustive()
	a.Push(&testTask{prio: math.NaN()})
	if !a.Empty() {
		t.Errorf("NaN-priority task must be rejected")
	}
	if a.Pop() != nil {
		t.Errorf("Pop on empty agenda must return nil")
	}
}

func TestLocalCapEviction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hpsg.parse")
	defer teardown()
	//
	a := NewLocalCap(2, 3)
	a.Push(&testTask{prio: 1.0, vertex: 1, tag: "one"})
	a.Push(&testTask{prio: 3.0, vertex: 1, tag: "three"})
	a.Push(&testTask{prio: 2.0, vertex: 1, tag: "two"}) // evicts "one"
	a.Push(&testTask{prio: 0.5, vertex: 2, tag: "other"})
	if a.Len() != 3 {
		t.Fatalf("expected 3 tasks after eviction, got %d", a.Len())
	}
	var tags []string
	for !a.Empty() {
		tags = append(tags, a.Pop().(*testTask).tag)
	}
	want := []string{"three", "two", "other"}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("pop order %v, want %v", tags, want)
			break
		}
	}
}
