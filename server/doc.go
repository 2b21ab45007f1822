// Package server provides the HTTP server of the auth service: a gin engine
// wrapped by net/http middleware and served with h2c support.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestLogger: request logging with duration tracking
//   - CORS: cross-origin resource sharing
//   - RequestID: request id generation and propagation
//   - BodySizeLimit: request body size limits
//   - RateLimit: per-key token buckets on login routes
//   - Auth: strategy-based authentication for protected routes
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /info and /metrics.
package server
