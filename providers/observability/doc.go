// Package observability defines the tracing, metrics and structured logging
// interfaces used by askgpt, plus the attribute keys, span names and metric
// names every component records under.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. The active [Span] travels through a [context.Context] via
// [ContextWithSpan] and [SpanFromContext], so low-level helpers such as the
// HTTP transport can attach events to the exchange that issued them without
// taking an explicit parameter.
//
// The slog subpackage provides the only bundled implementation.
package observability
