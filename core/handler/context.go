package handler

import (
	"context"
	"net/http"
)

// Context is the request context contract shared by the router, the
// middleware suite, and application handlers. It extends the standard
// context.Context with access to the underlying request/response pair,
// path parameters, and request-scoped value storage.
//
// SetValue stores a value readable through Value for the remainder of the
// request. Middleware uses it to hand session, client IP, and issued CSRF
// token data to downstream handlers without rebuilding the http.Request
// context on every hop.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
