package hpsg

import (
	"strings"
	"testing"
	"time"
)

func TestEdgeLimit(t *testing.T) {
	r := NewResources(0, 0, 3)
	r.StartRun()
	for i := 0; i < 3; i++ {
		r.PEdges++
		if r.Exhausted() {
			t.Fatalf("exhausted after %d edges, limit is 3", i+1)
		}
	}
	r.PEdges++
	if !r.Exhausted() {
		t.Errorf("limit of 3 did not fire at 4 edges")
	}
	if msg := r.ExhaustionMessage(); !strings.Contains(msg, "edge limit") {
		t.Errorf("unexpected exhaustion message: %s", msg)
	}
}

func TestUnlimited(t *testing.T) {
	r := NewResources(0, 0, 0)
	r.StartRun()
	r.PEdges = 1 << 20
	if r.Exhausted() {
		t.Errorf("unlimited resources must never exhaust on edges")
	}
}

func TestStages(t *testing.T) {
	r := NewResources(time.Hour, 0, 100)
	r.StartRun()
	r.PEdges = 10
	r.StartNextStage()
	if r.Exhausted() {
		t.Errorf("10 of 100 edges must not exhaust")
	}
	if r.StageTime() < 0 || r.TotalTime() < 0 {
		t.Errorf("timers not running")
	}
	r.StopRun()
}

func TestErrorKinds(t *testing.T) {
	e := ExhaustedError("parsing: edge limit")
	if e.Severe() {
		t.Errorf("exhaustion must be recoverable")
	}
	if e.Kind != ResourceExhausted {
		t.Errorf("wrong kind: %v", e.Kind)
	}
	f := InputError("bad token %d", 7)
	if !f.Severe() {
		t.Errorf("input errors are fatal")
	}
	if !strings.Contains(f.Error(), "bad token 7") {
		t.Errorf("error text: %s", f.Error())
	}
}
