// Package trace records the stages of a generator run as nested spans.
//
// Enable it from the command line:
//
//	mvvmgen generate --trace=- --trace-level=stage ./src
//	mvvmgen diag --trace=run.ndjson --trace-level=detail ./src
//
// The driver opens a run span, each pipeline stage (parse, bind, detect,
// facts, validate, emit, fix) opens a stage span under it, and the detail
// level adds one span per document. Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "emit", parent)
//	defer span.End("")
package trace
