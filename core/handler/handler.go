package handler

import "net/http"

// Response renders an HTTP response: headers, status code, body. A
// non-nil return travels to the router's error handler, which is how
// rejection envelopes reach the client.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a request handler typed on the context C, so handlers
// get request-scoped state without type assertions.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler turns an error escaping a handler into a response. It
// writes directly because by this point there is nothing left to wrap.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler with cross-cutting behavior. Session
// loading, CSRF verification, and request logging are all Middleware, so
// verification runs before any handler logic.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
