// Package metrics exposes reconciliation counters in the Prometheus format.
//
// A Registry owns its own prometheus.Registry so tests and multiple servers in
// one process never collide on the global default registerer.
package metrics
