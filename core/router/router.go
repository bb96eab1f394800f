package router

import (
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// Router dispatches HTTP requests against an explicit route table.
// Registration is append-only; requests match the most specific pattern
// regardless of registration order, and registering two routes of the
// same shape for the same method panics with ErrDuplicateRoute.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method handlers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])
	Connect(pattern string, h handler.HandlerFunc[C])
	Trace(pattern string, h handler.HandlerFunc[C])

	// Handle registers for all methods, Method for an explicit set.
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Use appends middleware for subsequently registered routes; With
	// returns a child scoped to extra middleware without mutating the
	// receiver.
	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Group shares middleware across a set of routes, Route does the same
	// under a path prefix, and Mount attaches an independently built
	// sub-router whose patterns are relative to the mount point.
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
	Mount(pattern string, sub Router[C])
}

// Routes exposes the route table for startup logging and tests.
type Routes interface {
	Routes() []Route
}

// Route describes a single entry in the route table with its HTTP method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router for the given context type. Options configure the
// error handler, shared middleware, the context factory, and logging.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
