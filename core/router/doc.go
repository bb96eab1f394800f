// Package router provides an HTTP router built around an explicit route
// table with middleware support, context management, and sub-router
// mounting. Every registration appends one visible entry to the table, so
// the full routing surface of an application can be audited at runtime via
// Routes().
//
// # Features
//
//   - Explicit route table, inspectable via Routes()
//   - Deterministic matching: static segments beat {param} placeholders,
//     which beat trailing wildcards
//   - Type-safe middleware composition with generic contexts
//   - Path parameter extraction
//   - Method-based routing (GET, POST, PUT, DELETE, etc.)
//   - Mount support for sub-routers
//   - 405 responses carry an Allow header listing the usable methods
//   - Panic recovery routed through the error handler
//   - Compatible with standard http.Handler interface
//
// # Basic Usage
//
// Create a router and define routes with handlers:
//
//	import "github.com/hardenlab/csrfkit/core/router"
//
//	r := router.New[*router.Context]()
//
//	r.Get("/users", listUsersHandler)
//	r.Post("/users", createUserHandler)
//	r.Get("/users/{id}", getUserHandler)
//	r.Put("/users/{id}", updateUserHandler)
//	r.Delete("/users/{id}", deleteUserHandler)
//
//	http.ListenAndServe(":8080", r)
//
// # Path Parameters
//
// Extract path parameters from URLs:
//
//	func getUserHandler(ctx *router.Context) handler.Response {
//		userID := ctx.Param("id")
//		user, err := userService.GetByID(ctx, userID)
//		if err != nil {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.JSON(user)
//	}
//
// Registering the same shape twice for an overlapping method set panics at
// startup, so ambiguous tables are rejected before they can serve traffic.
//
// # Middleware
//
// Middleware registered with Use applies to every route; With and Group
// scope additional middleware to a subset:
//
//	r.Use(middleware.Logging[*router.Context](logger))
//
//	r.Group(func(r router.Router[*router.Context]) {
//		r.Use(middleware.CSRF[*router.Context, SessionData](guard))
//		r.Post("/profile", updateProfileHandler)
//	})
//
// # Mounting
//
// Sub-routers attach under a prefix and see paths relative to it:
//
//	admin := router.New[*router.Context]()
//	admin.Get("/stats", statsHandler)
//
//	r.Mount("/admin", admin) // GET /admin/stats
//
// # Error Handling
//
// Handlers return a Response; returning an error from the response writer
// or panicking inside a handler routes the failure to the configured error
// handler:
//
//	r := router.New(
//		router.WithContextFactory(newAppContext),
//		router.WithErrorHandler(response.JSONErrorHandler[*AppContext]),
//	)
package router
