// Package testdoubles provides spies for the circulation observability interfaces.
//
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures spans with their start and finish attributes
//   - ContextualLoggerSpy: captures context-aware log calls
//   - LogHandlerSpy: a slog.Handler that captures records, for code that logs through *slog.Logger
//
// All spies are safe for concurrent use, so they can be shared by handlers running in parallel goroutines.
package testdoubles
