package middleware

import (
	"io"
	"log/slog"

	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/response"
	"github.com/hardenlab/csrfkit/core/session"
)

type sessionKey struct{}

// SessionTransport loads the session for a request and persists it back
// once the handler finishes. sessiontransport.Cookie satisfies it.
type SessionTransport[Data any] interface {
	Load(handler.Context) (session.Session[Data], error)
	Store(handler.Context, session.Session[Data]) error
}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context, Data any] struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx C) bool
	// Transport is required; it does the cookie or token round-trip.
	Transport SessionTransport[Data]
	// Logger receives load and store failures. Defaults to discard.
	Logger *slog.Logger
	// RequireAuth rejects requests whose session has no user bound.
	RequireAuth bool
	// RequireGuest rejects requests whose session is authenticated.
	RequireGuest bool
	// ErrorHandler builds the response for auth and store failures. It
	// receives response.ErrUnauthorized for missing auth,
	// response.ErrForbidden for guest-only violations, and the raw store
	// error otherwise. Defaults to the canonical error envelope.
	ErrorHandler func(ctx C, err error) handler.Response
}

// Session creates middleware that loads the session from transport, places
// it in the request context, and stores it back after the handler runs.
//
// The write-back step is what makes lazy CSRF secret creation and rotation
// durable: the CSRF middleware mutates the context session via SetSession,
// and this middleware persists whatever ended up there. Register Session
// BEFORE CSRF so the store happens after verification:
//
//	r.Use(
//		middleware.Session[*router.Context, AppData](transport),
//		middleware.CSRF[*router.Context, AppData](guard),
//	)
//
// Load errors degrade to an empty session rather than failing the request;
// store errors are delegated to ErrorHandler.
func Session[C handler.Context, Data any](transport SessionTransport[Data]) handler.Middleware[C] {
	return SessionWithConfig[C, Data](SessionConfig[C, Data]{
		Transport: transport,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// SessionWithConfig creates a session middleware with custom configuration.
//
// Usage:
//
//	// Require authentication for a protected group
//	cfg := middleware.SessionConfig[*router.Context, AppData]{
//		Transport:   transport,
//		RequireAuth: true,
//		ErrorHandler: func(ctx *router.Context, err error) handler.Response {
//			return response.RedirectSeeOther("/login")
//		},
//	}
//	protected.Use(middleware.SessionWithConfig(cfg))
//
//	// Skip sessions for health endpoints
//	cfg := middleware.SessionConfig[*router.Context, AppData]{
//		Transport: transport,
//		Skip: func(ctx *router.Context) bool {
//			return ctx.Request().URL.Path == "/health"
//		},
//	}
//	r.Use(middleware.SessionWithConfig(cfg))
func SessionWithConfig[C handler.Context, Data any](cfg SessionConfig[C, Data]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}

	if cfg.RequireAuth && cfg.RequireGuest {
		panic("session middleware: RequireAuth and RequireGuest cannot both be true")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(err)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				// A broken or absent cookie should not fail the request;
				// the visitor just starts over with a fresh session.
				cfg.Logger.ErrorContext(ctx, "session load failed", "error", err)
				sess = session.Session[Data]{}
			}

			if cfg.RequireAuth && !sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrUnauthorized)
			}

			if cfg.RequireGuest && sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrForbidden)
			}

			ctx.SetValue(sessionKey{}, sess)

			resp := next(ctx)

			// The handler or downstream middleware may have replaced the
			// session (secret creation, rotation, authentication).
			currentSess, ok := GetSession[Data](ctx)
			if !ok {
				return resp
			}

			if err := cfg.Transport.Store(ctx, currentSess); err != nil {
				cfg.Logger.ErrorContext(ctx, "session store failed", "error", err)
				return cfg.ErrorHandler(ctx, err)
			}

			return resp
		}
	}
}

// GetSession returns the request's session when the session middleware
// has run, and reports whether one was present.
func GetSession[Data any](ctx handler.Context) (session.Session[Data], bool) {
	if ctx == nil {
		return session.Session[Data]{}, false
	}

	if sess, ok := ctx.Value(sessionKey{}).(session.Session[Data]); ok {
		return sess, true
	}

	return session.Session[Data]{}, false
}

// MustGetSession is GetSession for routes where the middleware is
// guaranteed to have run; it panics when the session is missing.
func MustGetSession[Data any](ctx handler.Context) session.Session[Data] {
	sess, ok := GetSession[Data](ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}

// SetSession updates the session in context. Downstream mutations stored
// this way are persisted by the session middleware's write-back.
func SetSession[Data any](ctx handler.Context, sess session.Session[Data]) {
	ctx.SetValue(sessionKey{}, sess)
}
