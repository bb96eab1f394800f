package router

import (
	"log/slog"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler replaces the default error handler, which writes plain
// text. API routers typically install response.JSONErrorHandler here so
// verification failures reach clients as the canonical JSON envelope:
//
//	r := router.New(router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
//
// A nil handler keeps the default.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware seeds the router's middleware chain. Equivalent to calling
// Use before the first route registration.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory installs the constructor for the router's context
// type. The factory receives the response writer, the request, and the
// path parameters captured by the matched pattern. Required when C is an
// application-defined context; the default factory only builds
// *router.Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = f
	}
}

// WithLogger sets the logger for panics that surface after the response
// has already been written, where no error response is possible anymore.
// A nil logger keeps the discard default.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}
