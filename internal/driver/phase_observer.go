package driver

import "time"

// Phase names reported through PhaseObserver and recorded in timings.
const (
	PhaseRead     = "read"
	PhaseDecode   = "decode"
	PhaseLower    = "lower"
	PhaseValidate = "validate"
	PhaseDump     = "dump"
	PhaseCache    = "cache"
	// PhasePack is reported once per pack, after all other phases. It ends
	// with PhaseFailed when the pack has errors or an internal fault.
	PhasePack = "pack"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a driver phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseFailed ends a phase that stopped the pack.
	PhaseFailed
)

// PhaseEvent describes a timing phase boundary of one pack.
type PhaseEvent struct {
	Pack    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events. Packs run in parallel, so it may be
// called from several goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
