// Package handler defines the core abstractions for HTTP request processing:
// a Context interface carrying request state, a Response function that renders
// output, and generic HandlerFunc/Middleware types composed by the router.
//
// # Core Types
//
//	// Response function renders HTTP responses
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Type-safe handler with custom context
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Middleware function for handler composition
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
//	// Error handling function
//	type ErrorHandler[C Context] func(ctx C, err error)
//
// Handlers return a Response instead of writing directly, which keeps
// response generation separate from rendering and lets middleware wrap,
// replace, or suppress output. A middleware that must stop a request, such
// as the CSRF guard rejecting a forged POST, simply returns its own
// Response without calling next:
//
//	func guard[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//		return func(ctx C) handler.Response {
//			if err := verify(ctx.Request()); err != nil {
//				return response.Error(err) // handler never runs
//			}
//			return next(ctx)
//		}
//	}
//
// # Custom Contexts
//
// The Context interface is intentionally small so applications can supply
// their own implementation with typed accessors:
//
//	type AppContext struct {
//		context.Context
//		request  *http.Request
//		response http.ResponseWriter
//		values   map[any]any
//	}
//
//	func (c *AppContext) Request() *http.Request                { return c.request }
//	func (c *AppContext) ResponseWriter() http.ResponseWriter   { return c.response }
//	func (c *AppContext) Param(key string) string               { return "" }
//	func (c *AppContext) SetValue(key, val any) {
//		if c.values == nil {
//			c.values = make(map[any]any)
//		}
//		c.values[key] = val
//	}
//	func (c *AppContext) Value(key any) any {
//		if val, ok := c.values[key]; ok {
//			return val
//		}
//		return c.Context.Value(key)
//	}
//
// The router constructs contexts through its context factory, so handlers
// and middleware can be parameterized on the concrete type:
//
//	func profileHandler(ctx *AppContext) handler.Response {
//		sess := middleware.MustGetSession[Data](ctx)
//		return response.JSON(sess.Data)
//	}
//
// # Testing
//
// Because a handler is just a function from context to Response, tests build
// a context around httptest values, invoke the handler, and execute the
// returned Response against a ResponseRecorder. No server is required.
package handler
