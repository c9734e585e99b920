// Package buildpipeline runs the lowering driver over a set of packs and
// translates its phase events into progress events.
package buildpipeline

import (
	"context"
	"fmt"
	"time"

	"hirlower/internal/driver"
)

// Request configures one pipeline run.
type Request struct {
	// Paths are pack files; directories must be expanded by the caller.
	Paths    []string
	Options  driver.Options
	Progress ProgressSink
}

// Result captures per-pack results and stage timings.
type Result struct {
	Results []*driver.Result
	Timings Timings
}

// Failed counts packs with errors or internal faults.
func (r Result) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res != nil && res.Failed() {
			n++
		}
	}
	return n
}

// Run lowers every pack of req. The error is non-nil only for a malformed
// request or a canceled context.
func Run(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing pipeline request")
	}
	if len(req.Paths) == 0 {
		return result, fmt.Errorf("no packs to lower")
	}

	emitQueued(req.Progress, req.Paths)
	phases := &phaseObserver{sink: req.Progress, next: req.Options.PhaseObserver}
	opts := req.Options
	opts.PhaseObserver = phases.OnPhase

	start := time.Now()
	emitStage(req.Progress, "", StageLower, StatusWorking, nil, 0)
	results, err := driver.LowerPacks(ctx, req.Paths, opts)
	if err != nil {
		emitStage(req.Progress, "", StageLower, StatusError, err, time.Since(start))
		return result, err
	}
	result.Results = results
	for _, res := range results {
		recordTimings(&result.Timings, res)
	}
	status := StatusDone
	if result.Failed() > 0 {
		status = StatusError
	}
	emitStage(req.Progress, "", StageLower, status, nil, time.Since(start))
	return result, nil
}

type phaseObserver struct {
	sink ProgressSink
	next driver.PhaseObserver
}

// OnPhase updates the progress UI based on driver phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	if p.sink == nil {
		return
	}
	stage, known := stageOf(ev.Name)
	if ev.Name == driver.PhasePack {
		// итог по пакету: финальный статус на последней стадии
		stage, known = StageLower, ev.Status != driver.PhaseStart
	}
	if !known {
		return
	}
	var status Status
	switch ev.Status {
	case driver.PhaseStart:
		status = StatusWorking
	case driver.PhaseEnd:
		if ev.Name != driver.PhasePack {
			return
		}
		status = StatusDone
	case driver.PhaseFailed:
		status = StatusError
	}
	p.sink.OnEvent(Event{File: ev.Pack, Stage: stage, Status: status, Err: ev.Err, Elapsed: ev.Elapsed})
}

func recordTimings(t *Timings, res *driver.Result) {
	if res == nil {
		return
	}
	for _, phase := range res.Timing.Phases {
		if stage, ok := stageOf(phase.Name); ok {
			t.Add(stage, phase.Dur)
		}
	}
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageRead, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
