// Package tracing opens OpenTelemetry spans around vacation transitions.
// Without Init the global no-op provider is used.
package tracing
