// Package handlers serves the optional metrics server that runs alongside a
// long scan: Prometheus metrics, a health endpoint reporting the current
// phase, a liveness probe and build information.
//
//	GET  /metrics   Prometheus exposition
//	GET  /healthz   phase, uptime and last error of the run
//	GET  /livez     always 200 while the process is up
//	GET  /version   startup.BuildInfo as JSON
package handlers
