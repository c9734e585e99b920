// Package trace records what a lowering run did, from the driver down to
// single rewrites, so slow or failing packs can be located.
//
// Spans nest through the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithTrack(ctx, "core")
//	span, ctx := trace.Start(ctx, trace.ScopePass, "lower")
//	defer span.End("")
//	item := span.Child(trace.ScopeItem, "item:fn").Attr("def", "3")
//	item.Point(trace.ScopeNode, "bound", "?Sized")
//	item.End("")
//
// A span below the tracer level is not emitted, but its children still
// attach to the nearest emitted ancestor. Every Span method accepts nil, so
// disabled tracing costs one interface call per span.
//
// Each pack is a track; its events carry the track name because packs are
// lowered in parallel and their events interleave in the output.
//
// Output is a Stream (text or NDJSON), a Ring kept for dumping after a
// failure, or both through Tee.
package trace
