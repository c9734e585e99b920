package buildpipeline

import (
	"time"

	"hirlower/internal/driver"
	"hirlower/internal/observ"
)

// Stage is a step a pack goes through, in pipeline order.
type Stage uint8

const (
	StageRead Stage = iota
	StageDecode
	StageCache
	StageLower
	StageValidate
	StageDump
	numStages
)

// driver phase names, indexed by Stage
var stagePhases = [numStages]string{
	StageRead:     driver.PhaseRead,
	StageDecode:   driver.PhaseDecode,
	StageCache:    driver.PhaseCache,
	StageLower:    driver.PhaseLower,
	StageValidate: driver.PhaseValidate,
	StageDump:     driver.PhaseDump,
}

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageRead, StageDecode, StageCache, StageLower, StageValidate, StageDump}

func (s Stage) String() string {
	if s < numStages {
		return stagePhases[s]
	}
	return "stage?"
}

// stageOf maps a driver phase name to its stage.
func stageOf(phase string) (Stage, bool) {
	for s, name := range stagePhases {
		if name == phase {
			return Stage(s), true //nolint:gosec // bounded by numStages
		}
	}
	return 0, false
}

// Status is where a pack stands within its current stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "status?"
}

// Event reports progress of one pack; File is empty for the run as a whole.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Packs run in parallel, so OnEvent
// may be called concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings sums stage durations over all packs of a run.
type Timings struct {
	dur  [numStages]time.Duration
	seen uint8 // bit per stage
}

func (t *Timings) Add(stage Stage, d time.Duration) {
	if stage >= numStages {
		return
	}
	t.dur[stage] += d
	t.seen |= 1 << stage
}

// Has reports whether any pack went through stage.
func (t Timings) Has(stage Stage) bool {
	return stage < numStages && t.seen&(1<<stage) != 0
}

func (t Timings) Duration(stage Stage) time.Duration {
	if stage >= numStages {
		return 0
	}
	return t.dur[stage]
}

// Sum adds up the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}

// Report lists the recorded stages in pipeline order.
func (t Timings) Report() observ.Report {
	var r observ.Report
	for _, s := range Stages {
		if t.Has(s) {
			r.Phases = append(r.Phases, observ.PhaseTiming{Name: s.String(), Dur: t.dur[s]})
			r.Total += t.dur[s]
		}
	}
	return r
}
