package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// tick advances by step on every reading.
func tick(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = tick(time.Millisecond)

	stop := tm.Start("decode")
	if d := stop(nil); d != time.Millisecond {
		t.Fatalf("decode took %v", d)
	}
	if d := stop(nil); d != 0 {
		t.Errorf("second stop = %v", d)
	}
	if err := tm.Measure("lower", func() error { return errors.New("boom") }); err == nil {
		t.Fatal("Measure swallowed the error")
	}
	_ = tm.Measure("lower", func() error { return nil })

	rep := tm.Report()
	if len(rep.Phases) != 3 || rep.Total != 3*time.Millisecond {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Phases[1].Err != "boom" || rep.Phases[2].Err != "" {
		t.Errorf("errors = %q %q", rep.Phases[1].Err, rep.Phases[2].Err)
	}
	if d, ok := rep.Phase("lower"); !ok || d != 2*time.Millisecond {
		t.Errorf("lower = %v %v", d, ok)
	}
	if _, ok := rep.Phase("cache"); ok {
		t.Error("unknown phase reported")
	}
	s := rep.String()
	if !strings.Contains(s, "decode") || !strings.Contains(s, "(boom)") || !strings.Contains(s, "total") {
		t.Errorf("report text:\n%s", s)
	}
}

func TestTimerEmptyReport(t *testing.T) {
	rep := NewTimer().Report()
	if len(rep.Phases) != 0 || rep.Total != 0 {
		t.Errorf("empty timer report = %+v", rep)
	}
}
