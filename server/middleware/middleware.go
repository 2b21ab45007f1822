// Package middleware holds the HTTP middleware of the service.
//
// Recovery, request ids, CORS, body limits and request logging wrap the
// whole handler as net/http middleware. Authentication and rate limiting
// need gin routing state and are gin handlers.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that mws[0] sees the request first.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
