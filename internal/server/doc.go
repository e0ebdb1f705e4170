// Package server provides the staticd HTTP server.
//
// # Architecture
//
// The server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → RequestID → Logging → SecurityHeaders → RateLimit → Assets
//
// Health probes bypass the middleware stack via a top-level mux so they
// stay fast and never rate-limited:
//
//   - GET /healthz — liveness: 200 whenever the process accepts connections
//   - GET /readyz  — readiness: 200 when the asset root is present, else 503
//
// Everything else is a read-only asset request:
//
//   - GET/HEAD <path>  — file bytes with a fixed-table content type
//   - <path ending />  — serves the configured index file
//   - directory w/o /  — 301 redirect to the slash form
//
// # Error mapping
//
// Malformed paths → 400. Missing files → 404. Paths escaping the asset
// root are folded into 404 so traversal probes learn nothing about the
// filesystem outside the root. Permission and read failures → 500. Errors
// are per-request; the process never exits on a request failure.
package server
