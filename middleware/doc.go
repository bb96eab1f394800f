// Package middleware provides HTTP middleware for session handling and
// cross-site request forgery protection, plus the supporting concerns a
// service running them needs: request IDs, client IP extraction, request
// logging, and security headers.
//
// All middleware follow a consistent pattern:
//   - Generic functions that accept a handler.Context type parameter
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - Context helpers for retrieving stored values
//
// # Middleware Ordering
//
// Session must run before CSRF: the guard reads the session from the
// request context and relies on the session middleware's write-back to
// persist secret creation and rotation. The usual chain:
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
//	)
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.ClientIP[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.SecurityHeaders[*router.Context](),
//		middleware.Session[*router.Context, SessionData](transport),
//		middleware.CSRF[*router.Context, SessionData](guard),
//	)
//
// # Request Forgery Protection
//
// The CSRF middleware divides traffic by method. Safe methods
// (GET/HEAD/OPTIONS/TRACE) are never verified; they receive a token,
// lazily creating the per-session secret the first time one is needed.
// State-changing methods must return that token through the hidden form
// field or the token header, or they are rejected before the handler
// runs with a machine-readable code:
//
//	csrf_token_missing         no token in the request
//	csrf_token_invalid         token fails verification for this session
//	csrf_token_expired         authentic token past its lifetime
//	csrf_no_session            no session to verify against
//	csrf_surface_not_accepted  surface disabled by configuration
//	csrf_origin_untrusted      Origin/Referer check failed (403)
//
// Templates embed the token via CSRFHiddenField:
//
//	r.Get("/transfer", func(ctx *router.Context) handler.Response {
//		return response.Template(formTmpl, map[string]any{
//			"CSRFField": middleware.CSRFHiddenField(ctx),
//		})
//	})
//
// Script clients fetch it from a token endpoint instead:
//
//	r.Get("/csrf-token", middleware.CSRFTokenHandler[*router.Context]())
//
// # Sessions
//
// The session middleware loads the session through a transport (cookie
// backed by a pluggable store), exposes it via GetSession/SetSession,
// and stores it back after the handler finishes. RequireAuth and
// RequireGuest gate routes on authentication state.
//
// # Common Configuration
//
// Every middleware accepts a Skip function for bypassing specific
// requests, and the verification-oriented ones take an ErrorHandler to
// replace the canonical JSON rejection with redirects or custom bodies:
//
//	cfg := middleware.CSRFConfig[*router.Context]{
//		Guard:       guard,
//		ExemptPaths: []string{"/webhooks/*"},
//		Skip: func(ctx *router.Context) bool {
//			return ctx.Request().Header.Get("X-Internal") == "1"
//		},
//		ErrorHandler: func(ctx *router.Context, err error) handler.Response {
//			return response.RedirectSeeOther("/session-expired")
//		},
//	}
//	r.Use(middleware.CSRFWithConfig[*router.Context, SessionData](cfg))
package middleware
