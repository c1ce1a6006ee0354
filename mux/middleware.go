package mux

import "net/http"

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. Middleware served by a Router can read and change
// the captured request through Current.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// applyMiddleware wraps h so that mws run in order.
func applyMiddleware(h http.Handler, mws []MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
