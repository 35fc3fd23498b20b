// Package engineobs holds the logging, metrics, and tracing instrumentation shared by the circulation storage engines.
package engineobs
