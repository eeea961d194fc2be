// Package api exposes the account store over HTTP.
//
// # Endpoints
//
//	POST /api/accounts             register   201 | 409 duplicate | 400 invalid
//	POST /api/authenticate         check      200 {"authenticated": bool}
//	GET  /api/accounts/{username}  lookup     200 {id, username, email} | 404
//	GET  /health                   liveness
//	GET  /health/ready             database ping, 503 when unreachable
//	GET  /metrics                  Prometheus, when WithMetrics is given
//
// Storage failures return 500 with a generic message; the cause is logged.
// Password hashes never appear in any response.
package api
