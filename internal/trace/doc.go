// Package trace records what the symbol graph pipeline is doing.
//
// It is the logging layer of symgraph: phases (load, declare, bind, close,
// order) open spans at ScopePhase, per-symbol work opens spans at
// ScopeSymbol, and the CLI decides how much of that reaches the output.
//
//	symgraph check --trace=- --trace-level=detail
//
// Tracers:
//
//   - Nop: zero overhead when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for the internal-error dump
//   - MultiTracer: fans out to several tracers
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "bind", 0)
//	defer span.End("")
package trace
