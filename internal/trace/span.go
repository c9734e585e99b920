package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// Span is an open logical operation. A span filtered out by the level still
// carries the tracer, so finer children attach to the nearest emitted
// ancestor. All methods accept a nil receiver.
type Span struct {
	tracer  Tracer
	id      uint64 // 0 when the span itself is not emitted
	parent  uint64
	track   string
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

func begin(t Tracer, track string, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return nil
	}
	s := &Span{tracer: t, parent: parent, track: track, scope: scope, name: name}
	if !t.Level().ShouldEmit(scope) {
		return s
	}
	s.id = spanCounter.Add(1)
	s.started = time.Now()
	t.Emit(&Event{
		Time:     s.started,
		Seq:      seqCounter.Add(1),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Track:    track,
		Name:     name,
	})
	return s
}

// Begin opens a root-level span under parent (0 for none).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, "", scope, name, parent)
}

// Start opens a span under the span carried by ctx and returns a context
// carrying the new one.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sc := CurrentSpan(ctx)
	s := begin(FromContext(ctx), sc.Track, scope, name, sc.SpanID)
	if s == nil {
		return nil, ctx
	}
	return s, WithSpanContext(ctx, SpanContext{SpanID: s.anchor(), Track: sc.Track})
}

func (s *Span) anchor() uint64 {
	if s.id != 0 {
		return s.id
	}
	return s.parent
}

// Child opens a nested span.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return nil
	}
	return begin(s.tracer, s.track, scope, name, s.anchor())
}

// Point emits an instant event inside s.
func (s *Span) Point(scope Scope, name, detail string) {
	if s == nil || !s.tracer.Level().ShouldEmit(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      seqCounter.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.anchor(),
		Track:    s.track,
		Name:     name,
		Detail:   detail,
	})
}

// Attr annotates the end event of s.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      seqCounter.Add(1),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Track:    s.track,
		Name:     s.name,
		Detail:   detail,
		Attrs:    s.attrs,
	})
	return dur
}

// ID returns the span ID, or 0 when the span is not emitted.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
