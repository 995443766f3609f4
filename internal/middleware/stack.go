// Package middleware provides HTTP middleware for the RAMS generation API.
package middleware

import "net/http"

// Stack composes middleware functions into a single wrapper, applied in the
// order given.
//
// Example:
//
//	stack := Stack(loggingMw.Handler, securityMw.Handler, rateLimitMw.Limit)
//	mux.Handle("POST /api/v1/documents", stack(createHandler))
//
// This is equivalent to:
//
//	mux.Handle("POST /api/v1/documents",
//	    loggingMw.Handler(securityMw.Handler(rateLimitMw.Limit(createHandler))))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
