// Package monitoring provides Prometheus metrics for the backend: HTTP
// request counters, service call timings, PTY session gauges, and
// WebSocket connection tracking. Each Metrics value owns its registry.
package monitoring
