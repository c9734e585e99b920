package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hirlower/internal/buildpipeline"
)

func TestApplyEventTracksPacks(t *testing.T) {
	m := NewProgressModel("lowering", []string{"a.hlpack", "b.hlpack"}, nil).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.hlpack", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	if got := m.rows[0].label(); got != "lowering" {
		t.Fatalf("label = %q", got)
	}
	m.applyEvent(buildpipeline.Event{File: "a.hlpack", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond})
	m.applyEvent(buildpipeline.Event{File: "a.hlpack", Stage: buildpipeline.StageDump, Status: buildpipeline.StatusWorking})
	if r := m.rows[0]; r.status != buildpipeline.StatusDone || r.elapsed != 2*time.Millisecond {
		t.Errorf("final row overwritten: %+v", r)
	}
	m.applyEvent(buildpipeline.Event{File: "b.hlpack", Stage: buildpipeline.StageDecode, Status: buildpipeline.StatusError, Err: errors.New("bad")})
	m.applyEvent(buildpipeline.Event{File: "unknown", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})

	if done, failed := m.counts(); done != 2 || failed != 1 {
		t.Errorf("counts = %d, %d", done, failed)
	}
	if p := m.percent(); p != 1 {
		t.Errorf("percent = %v", p)
	}
	if m.overall != "lowering" {
		t.Errorf("overall stage = %q", m.overall)
	}
	if m.rows[1].err == nil || m.rows[1].label() != "error" {
		t.Errorf("failed row = %+v", m.rows[1])
	}
	view := m.View()
	if !strings.Contains(view, "a.hlpack") || !strings.Contains(view, "1 failed") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"packs/very/long/name.hlpack", 10, "packs/v..."},
		{"abcdef", 3, "abc"},
		{"имя", 0, "имя"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
