// Package metrics provides Prometheus instrumentation for the RAS
// engine: rule loads, transform applications, and origin mismatches.
// Metrics are registered on a private registry and exposed through
// Handler.
package metrics
