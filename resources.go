package hpsg

import (
	"fmt"
	"runtime"
	"time"
)

// Processing stages of a parse run. Each stage gets a share of the global
// resource limits.
const (
	StageLexical = iota
	StageParsing
	StageUnpacking
	StageRecovery
	numStages
)

var stageName = [numStages]string{"lexical", "parsing", "unpacking", "recovery"}

// Resources tracks and limits the consumption of wall-clock time, memory
// and passive edges during a parse run. Limits may be given globally and
// are divided between the processing stages by percentage; a percentage
// < 0 lets the stage share the budget with the following stages.
//
// Exhausted is polled between tasks and between unpacker recursions; on
// exhaustion the current stage returns whatever complete results it has.
type Resources struct {
	// PEdges counts passive edges over the whole run.
	PEdges int

	// Global limits; a zero value means unlimited.
	TimeLimit time.Duration
	MemLimit  int64 // bytes
	EdgeLimit int

	StagePercentage [numStages]float64

	stage      int
	stageStart time.Time
	runStart   time.Time

	sumTime  time.Duration
	sumEdges int

	localTimeLimit time.Duration
	localEdgeLimit int

	memTicks int   // poll counter for the memory probe
	memUsage int64 // last sampled heap usage
}

// NewResources creates a resource tracker with the given global limits
// (zero = unlimited). Every stage percentage is set to -1, so each stage
// may use the whole remaining budget.
func NewResources(timeout time.Duration, memlimit int64, edgelimit int) *Resources {
	r := &Resources{
		TimeLimit: timeout,
		MemLimit:  memlimit,
		EdgeLimit: edgelimit,
	}
	for i := range r.StagePercentage {
		r.StagePercentage[i] = -1
	}
	return r
}

// StartRun resets the tracker and enters the first stage.
func (r *Resources) StartRun() {
	r.runStart = time.Now()
	r.PEdges = 0
	r.sumTime = 0
	r.sumEdges = 0
	r.stage = -1
	r.StartNextStage()
}

// StopRun ends the current stage and stops the run.
func (r *Resources) StopRun() {
	r.endStage()
}

// StartNextStage closes the current stage and opens the following one.
func (r *Resources) StartNextStage() {
	r.StartStage(r.stage + 1)
}

// StartStage closes the current stage and opens stage i. Use only in
// exceptional cases; normally StartNextStage is called.
func (r *Resources) StartStage(i int) {
	if r.stage >= 0 {
		r.endStage()
	}
	if i >= numStages {
		i = numStages - 1
	}
	r.stage = i
	r.stageStart = time.Now()
	r.computeLocalBounds()
}

func (r *Resources) endStage() {
	r.sumTime += time.Since(r.stageStart)
	r.sumEdges = r.PEdges
}

// The local time limit of a stage is global_limit * percentage - time
// already used; the local edge limit is global_limit * percentage, compared
// against the run's total edge count. A percentage < 0 counts as 100%.
func (r *Resources) computeLocalBounds() {
	pct := r.StagePercentage[r.stage]
	if pct < 0 {
		pct = 1.0
	}
	if r.TimeLimit > 0 {
		r.localTimeLimit = time.Duration(float64(r.TimeLimit)*pct) - r.sumTime
	} else {
		r.localTimeLimit = 0
	}
	if r.EdgeLimit > 0 {
		r.localEdgeLimit = int(float64(r.EdgeLimit) * pct)
	} else {
		r.localEdgeLimit = 0
	}
}

// Exhausted returns true as soon as one of the limits of the current stage
// has fired.
func (r *Resources) Exhausted() bool {
	if r.localEdgeLimit != 0 && r.PEdges > r.localEdgeLimit {
		return true
	}
	if r.EdgeLimit != 0 && r.PEdges > r.EdgeLimit {
		return true
	}
	if r.MemLimit != 0 && r.mem() > r.MemLimit {
		return true
	}
	if r.localTimeLimit != 0 && time.Since(r.stageStart) > r.localTimeLimit {
		return true
	}
	return false
}

// ExhaustionMessage returns an explanation of the concrete resource
// failure. May only be called when the resources have been exhausted.
func (r *Resources) ExhaustionMessage() string {
	prefix := stageName[r.stage]
	switch {
	case (r.localEdgeLimit != 0 && r.PEdges > r.localEdgeLimit) ||
		(r.EdgeLimit != 0 && r.PEdges > r.EdgeLimit):
		return fmt.Sprintf("%s: edge limit exhausted (%d pedges)", prefix, r.PEdges)
	case r.MemLimit != 0 && r.mem() > r.MemLimit:
		return fmt.Sprintf("%s: memory limit exhausted (%d bytes)", prefix, r.mem())
	default:
		return fmt.Sprintf("%s: timed out (%v)", prefix, time.Since(r.stageStart))
	}
}

// StageTime returns the time elapsed in the current stage.
func (r *Resources) StageTime() time.Duration {
	return time.Since(r.stageStart)
}

// TotalTime returns the time elapsed since StartRun.
func (r *Resources) TotalTime() time.Duration {
	return time.Since(r.runStart)
}

// mem samples the heap usage. Reading memory statistics stops the world,
// so the probe runs only every 32nd call.
func (r *Resources) mem() int64 {
	if r.memTicks%32 == 0 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		r.memUsage = int64(ms.HeapAlloc)
	}
	r.memTicks++
	return r.memUsage
}
