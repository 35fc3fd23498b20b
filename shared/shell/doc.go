// Package shell holds the infrastructure code shared by all feature slices of the circulation engine.
//
// It provides retry with exponential backoff for units of work that hit a concurrency conflict,
// the HandlerResult that command handlers report to their observability wrappers,
// the metric names, span names, and log messages used for instrumentation, and the
// validation of command input.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
