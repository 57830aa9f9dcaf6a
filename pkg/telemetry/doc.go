// Package telemetry groups the observability concerns of the RAS
// engine: structured logging (logging) and Prometheus metrics
// (metrics). The engine core only emits structured events at defined
// severities; sinks and exposition are wired by the embedding process.
package telemetry
