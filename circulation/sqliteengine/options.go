package sqliteengine

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: unit-of-work outcomes and durations, concurrency conflicts (production-safe)
// Warn level: non-critical issues like rollback failures
// Error level: failures that abort a unit of work.
func WithLogger(logger circulation.Logger) Option {
	return func(e *Engine) error {
		e.obs.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// It takes precedence over the plain logger and receives the context for trace correlation.
func WithContextualLogger(logger circulation.ContextualLogger) Option {
	return func(e *Engine) error {
		e.obs.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
func WithMetrics(collector circulation.MetricsCollector) Option {
	return func(e *Engine) error {
		e.obs.MetricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// One span is created per unit of work.
func WithTracing(collector circulation.TracingCollector) Option {
	return func(e *Engine) error {
		e.obs.TracingCollector = collector
		return nil
	}
}
