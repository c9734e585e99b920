package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf, LevelDetail, FormatText)
	ctx := WithTrack(WithTracer(context.Background(), s), "core")

	pass, _ := Start(ctx, ScopePass, "lower")
	pass.Point(ScopeNode, "use-tree", "dropped at detail level")
	item := pass.Child(ScopeItem, "item:struct").Attr("def", "1").Attr("name", "Point Pair")
	item.End("")
	pass.End("done")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "use-tree") {
		t.Errorf("node event leaked at detail level:\n%s", out)
	}
	for _, want := range []string{"[core] > lower", "< item:struct def=1 name=\"Point Pair\"", "< lower (done)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilteredSpanKeepsParent(t *testing.T) {
	ring := NewRing(16, LevelPhase)
	pass := Begin(ring, ScopePass, "lower", 0)
	item := pass.Child(ScopeItem, "item:fn")
	if item == nil || item.ID() != 0 {
		t.Fatalf("item span should exist but not be emitted: %+v", item)
	}
	inner := item.Child(ScopePass, "nested")
	inner.End("")
	item.End("")
	pass.End("")

	evs := ring.Events()
	if len(evs) != 4 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[1].Name != "nested" || evs[1].ParentID != pass.ID() {
		t.Errorf("nested span parent = %d, want %d", evs[1].ParentID, pass.ID())
	}
}

func TestNilSpanIsSafe(t *testing.T) {
	var s *Span
	s.Attr("k", "v").Point(ScopeNode, "x", "")
	if s.Child(ScopeItem, "y") != nil || s.End("") != 0 || s.ID() != 0 {
		t.Fatal("nil span produced output")
	}
	sp, ctx := Start(context.Background(), ScopePass, "lower")
	if sp != nil || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("span started without a tracer")
	}
}

func TestRingKeepsNewest(t *testing.T) {
	ring := NewRing(2, LevelDebug)
	root := Begin(ring, ScopeDriver, "pack", 0)
	for _, name := range []string{"a", "b", "c"} {
		root.Point(ScopeNode, name, "")
	}
	got := ring.Events()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" || ring.Len() != 2 {
		t.Fatalf("events = %+v", got)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("dump = %q", buf.String())
	}
	var ev struct {
		Kind   string `json:"kind"`
		Name   string `json:"name"`
		Parent uint64 `json:"parent"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "point" || ev.Name != "b" || ev.Parent != root.ID() {
		t.Errorf("decoded = %+v", ev)
	}
}

func TestTeeAndRingOf(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRing(8, LevelDebug)
	tr := Tee(NewStream(&buf, LevelPhase, FormatText), ring)
	if tr.Level() != LevelDebug {
		t.Fatalf("tee level = %v", tr.Level())
	}
	sp := Begin(tr, ScopeItem, "item:fn", 0)
	sp.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 || ring.Len() != 2 {
		t.Errorf("stream got %q, ring %d events", buf.String(), ring.Len())
	}
	if got, ok := RingOf(tr); !ok || got != ring {
		t.Error("RingOf did not find the ring")
	}
	if _, ok := RingOf(Nop); ok {
		t.Error("Nop has no ring")
	}
}

func TestNewErrorLevelRecordsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*Ring); !ok {
		t.Fatalf("tracer = %T, want *Ring", tr)
	}
	if tr, _ := New(Config{}); tr != Nop {
		t.Fatal("off level must give Nop")
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer")
	}
	ring := NewRing(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
}

func TestParseLevelAndMode(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "off": LevelOff, "DEBUG": LevelDebug, "phase": LevelPhase} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error")
	}
	if m, err := ParseMode(" Both "); err != nil || m != ModeBoth {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("expected error")
	}
}
