package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
)

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// SpanContext is the span new spans of a context nest under.
type SpanContext struct {
	SpanID uint64
	Track  string
}

// CurrentSpan returns the span context of ctx; the zero value when absent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey, sc)
}

// WithTrack starts a new track (one pack) in ctx. Spans opened from the
// returned context are labelled with track.
func WithTrack(ctx context.Context, track string) context.Context {
	sc := CurrentSpan(ctx)
	sc.Track = track
	return WithSpanContext(ctx, sc)
}
