// Package server exposes report generation over HTTP.
//
// Routes:
//
//	POST /api/reports        generate a report from a JSON request body
//	GET  /api/reports        list recent archived reports (?limit=N)
//	GET  /api/reports/{id}   fetch one archived report
//	GET  /healthz            liveness probe
//	GET  /metrics            Prometheus exposition
//
// The /api routes share a token-bucket rate limiter. Errors are returned
// as {"error": "...", "code": "..."}.
package server
