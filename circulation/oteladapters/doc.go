// Package oteladapters provides OpenTelemetry implementations of the circulation observability interfaces.
//
// The engines and command handlers only know the dependency-free interfaces in package circulation.
// Wire these adapters in when the host application already runs an OpenTelemetry pipeline:
//
//	logger := oteladapters.NewSlogBridgeLogger("circulation")
//	metrics := oteladapters.NewMetricsCollector(otel.Meter("circulation"))
//	tracing := oteladapters.NewTracingCollector(otel.Tracer("circulation"))
package oteladapters
