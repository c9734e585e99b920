package observ

import (
	"fmt"
	"strings"
	"time"
)

// PhaseTiming is one measured phase. Err holds the error text of a failed
// phase.
type PhaseTiming struct {
	Name string        `json:"name"`
	Dur  time.Duration `json:"dur_ns"`
	Err  string        `json:"err,omitempty"`
}

// Timer measures the phases of one pack run. Not safe for concurrent use;
// every pack owns its timer.
type Timer struct {
	phases []PhaseTiming
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens phase name. The returned stop function closes it with the
// phase outcome and returns its duration; calls after the first return 0.
func (t *Timer) Start(name string) (stop func(error) time.Duration) {
	i := len(t.phases)
	t.phases = append(t.phases, PhaseTiming{Name: name})
	began := t.now()
	stopped := false
	return func(err error) time.Duration {
		if stopped {
			return 0
		}
		stopped = true
		p := &t.phases[i]
		p.Dur = t.now().Sub(began)
		if err != nil {
			p.Err = err.Error()
		}
		return p.Dur
	}
}

// Measure runs fn as phase name.
func (t *Timer) Measure(name string, fn func() error) error {
	stop := t.Start(name)
	err := fn()
	stop(err)
	return err
}

// Report is a snapshot of a timer.
type Report struct {
	Phases []PhaseTiming `json:"phases"`
	Total  time.Duration `json:"total_ns"`
}

func (t *Timer) Report() Report {
	r := Report{Phases: append([]PhaseTiming(nil), t.phases...)}
	for _, p := range r.Phases {
		r.Total += p.Dur
	}
	return r
}

// Phase returns the time spent in name, summed over repeats.
func (r Report) Phase(name string) (d time.Duration, ok bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			d += p.Dur
			ok = true
		}
	}
	return d, ok
}

// String renders one line per phase and a total, in milliseconds.
func (r Report) String() string {
	var b strings.Builder
	line := func(name string, d time.Duration, note string) {
		fmt.Fprintf(&b, "%-10s %8.2f ms", name, float64(d)/float64(time.Millisecond))
		if note != "" {
			b.WriteString("  (" + note + ")")
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		line(p.Name, p.Dur, p.Err)
	}
	line("total", r.Total, "")
	return b.String()
}
