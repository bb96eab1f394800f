package middleware

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/hardenlab/csrfkit/core/csrf"
	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/logger"
	"github.com/hardenlab/csrfkit/core/response"
)

// csrfTokenKey stores the token issued for the current request.
type csrfTokenKey struct{}

// csrfGuardKey stores the guard so template helpers can render the
// hidden field with the configured field name.
type csrfGuardKey struct{}

// ErrOriginUntrusted is returned when TrustedOrigins is configured and a
// state-changing request arrives without a matching Origin or Referer.
var ErrOriginUntrusted = errors.New("request origin not trusted")

// CSRFConfig configures the CSRF middleware.
type CSRFConfig[C handler.Context] struct {
	// Guard performs token issuance and verification (required).
	Guard *csrf.Guard
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx C) bool
	// ExemptPaths lists request paths that bypass verification entirely.
	// Entries match exactly, or as a prefix when they end with "/*"
	// (e.g. "/webhooks/*" for endpoints authenticated by signature).
	ExemptPaths []string
	// TrustedOrigins, when non-empty, additionally requires every
	// state-changing request to present an Origin (or Referer) matching
	// one of the entries. Entries are "host[:port]" or
	// "scheme://host[:port]"; a host-only entry matches any scheme.
	TrustedOrigins []string
	// RotateAfterUse replaces the session secret after each successful
	// verification, so every submitted token works exactly once. The
	// response carries a fresh token for the next request. Off by
	// default: tokens stay valid until rotation or expiry.
	RotateAfterUse bool
	// SetResponseHeader echoes the current token in the response header
	// (Guard.HeaderName), letting script clients read it without an
	// extra round trip to the token endpoint.
	SetResponseHeader bool
	// Logger receives rejection and secret-lifecycle entries.
	// Defaults to discard.
	Logger *slog.Logger
	// ErrorHandler builds the rejection response. It receives the raw
	// verification error (csrf.ErrTokenMissing, csrf.ErrInvalidToken,
	// csrf.ErrTokenExpired, csrf.ErrNoSession, csrf.ErrUnsupportedSurface,
	// or ErrOriginUntrusted). Default: the canonical error envelope with
	// a machine-readable csrf_* code and status 400 (403 for origin).
	ErrorHandler func(ctx C, err error) handler.Response
}

// CSRF creates middleware that verifies anti-forgery tokens on every
// state-changing request before the handler runs.
//
// It must be applied after the Session middleware: tokens are derived
// from the per-session secret, so the guard reads the session from the
// request context. Safe methods (GET/HEAD/OPTIONS/TRACE) are never
// verified; instead the middleware lazily creates the session secret,
// issues a token, and caches it in the context for templates and the
// token endpoint. Non-safe methods must present that token through the
// hidden form field or the token header, or the request is rejected
// with HTTP 400 before any application logic runs.
//
// Usage:
//
//	guard, err := csrf.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := router.New[*Context](
//		router.WithContextFactory[*Context](newContext),
//		router.WithErrorHandler[*Context](response.JSONErrorHandler),
//		router.WithMiddleware(
//			middleware.Session[*Context, SessionData](transport),
//			middleware.CSRF[*Context, SessionData](guard),
//		),
//	)
//
//	// In a form template:
//	//   <form method="POST" action="/transfer">{{ .CSRFField }} ...</form>
//	// with .CSRFField = middleware.CSRFHiddenField(ctx)
func CSRF[C handler.Context, Data any](guard *csrf.Guard) handler.Middleware[C] {
	return CSRFWithConfig[C, Data](CSRFConfig[C]{
		Guard:  guard,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// CSRFWithConfig creates a CSRF middleware with custom configuration.
//
// Rejections never reach the handler. The default rejection response is
// the canonical envelope with status 400 and a machine-readable code
// distinguishing the failure: csrf_token_missing, csrf_token_invalid,
// csrf_token_expired, csrf_no_session, csrf_surface_not_accepted, or
// csrf_origin_untrusted (403). Every rejection is logged at warn level
// with method, path, and reason.
//
// Advanced usage:
//
//	cfg := middleware.CSRFConfig[*Context]{
//		Guard:             guard,
//		ExemptPaths:       []string{"/webhooks/*"},
//		TrustedOrigins:    []string{"https://app.example.com"},
//		RotateAfterUse:    true,
//		SetResponseHeader: true,
//		Logger:            log,
//	}
//	r.Use(middleware.CSRFWithConfig[*Context, SessionData](cfg))
func CSRFWithConfig[C handler.Context, Data any](cfg CSRFConfig[C]) handler.Middleware[C] {
	if cfg.Guard == nil {
		panic("csrf middleware: guard is required")
	}

	trusted, err := parseTrustedOrigins(cfg.TrustedOrigins)
	if err != nil {
		panic("csrf middleware: " + err.Error())
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(csrfRejection(err))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			r := ctx.Request()
			if isExemptPath(r.URL.Path, cfg.ExemptPaths) {
				return next(ctx)
			}

			ctx.SetValue(csrfGuardKey{}, cfg.Guard)

			reject := func(err error) handler.Response {
				cfg.Logger.WarnContext(ctx, "csrf rejection",
					logger.Component("middleware.csrf"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Reason(rejectionReason(err)),
				)
				return cfg.ErrorHandler(ctx, err)
			}

			// Safe methods skip verification: they only get a token to
			// embed, creating the session secret on first use.
			if csrf.IsSafeMethod(r.Method) {
				sess, ok := GetSession[Data](ctx)
				if !ok || sess.ID == uuid.Nil {
					return next(ctx)
				}

				secret, err := sess.EnsureCSRFSecret()
				if err != nil {
					cfg.Logger.ErrorContext(ctx, "csrf secret creation failed", logger.Error(err))
					return next(ctx)
				}
				SetSession(ctx, sess)

				token, err := cfg.Guard.Issue(secret, sess.ID)
				if err != nil {
					cfg.Logger.ErrorContext(ctx, "csrf token issuance failed", logger.Error(err))
					return next(ctx)
				}
				ctx.SetValue(csrfTokenKey{}, token)

				return deliverToken(ctx, next, token, &cfg)
			}

			sess, ok := GetSession[Data](ctx)
			if !ok || sess.ID == uuid.Nil {
				return reject(csrf.ErrNoSession)
			}

			if len(trusted) > 0 {
				if err := checkOrigin(r, trusted); err != nil {
					return reject(err)
				}
			}

			// Extract from the context's current request so the parsed
			// form cache survives into the handler's view of the request.
			token, err := cfg.Guard.TokenFromRequest(ctx.Request())
			if err != nil {
				return reject(err)
			}

			if err := cfg.Guard.Verify(sess.CSRFSecret, sess.ID, token); err != nil {
				return reject(err)
			}

			if cfg.RotateAfterUse {
				if err := sess.RotateCSRFSecret(); err != nil {
					return reject(err)
				}
				SetSession(ctx, sess)
			}

			// Hand a fresh token to the handler so re-rendered forms and
			// header echoes always carry a currently-valid value.
			fresh, err := cfg.Guard.Issue(sess.CSRFSecret, sess.ID)
			if err != nil {
				return reject(err)
			}
			ctx.SetValue(csrfTokenKey{}, fresh)

			return deliverToken(ctx, next, fresh, &cfg)
		}
	}
}

// deliverToken runs the rest of the chain and decorates the response:
// token-bearing responses vary on the session cookie, and the current
// token is optionally echoed in the token header.
func deliverToken[C handler.Context](ctx C, next handler.HandlerFunc[C], token string, cfg *CSRFConfig[C]) handler.Response {
	resp := next(ctx)

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Add("Vary", "Cookie")
		if cfg.SetResponseHeader {
			w.Header().Set(cfg.Guard.HeaderName(), token)
		}
		return resp(w, r)
	}
}

// GetCSRFToken returns the token issued for the current request, and
// false when the CSRF middleware did not run.
func GetCSRFToken(ctx handler.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	if token, ok := ctx.Value(csrfTokenKey{}).(string); ok {
		return token, true
	}

	return "", false
}

// MustGetCSRFToken is GetCSRFToken for routes where the middleware is
// guaranteed to have run; it panics when no token was issued.
func MustGetCSRFToken(ctx handler.Context) string {
	token, ok := GetCSRFToken(ctx)
	if !ok {
		panic("csrf token not found in context")
	}
	return token
}

// CSRFHiddenField renders the current token as a hidden input ready to
// drop into a form template. Rendering the whole element, rather than the
// bare token value, keeps the field name in sync with the guard
// configuration.
//
// Panics when the CSRF middleware has not run for this request, which is
// a wiring mistake rather than a request-level failure.
func CSRFHiddenField(ctx handler.Context) template.HTML {
	guard, ok := ctx.Value(csrfGuardKey{}).(*csrf.Guard)
	if !ok {
		panic("csrf middleware not active for this request")
	}
	return guard.HiddenField(MustGetCSRFToken(ctx))
}

// CSRFTokenHandler returns a GET handler exposing the current token as
// {"token": "..."} for script clients that submit via the token header.
//
//	r.Get("/csrf-token", middleware.CSRFTokenHandler[*Context]())
func CSRFTokenHandler[C handler.Context]() handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		token, ok := GetCSRFToken(ctx)
		if !ok {
			return response.Error(response.ErrInternalServerError.
				WithCode("csrf_token_unavailable").
				WithMessage("No CSRF token issued for this request"))
		}
		return response.JSON(map[string]string{"token": token})
	}
}

// csrfRejection maps a verification error to the canonical envelope.
// Unknown errors pass through and surface as internal server errors.
func csrfRejection(err error) error {
	switch {
	case errors.Is(err, csrf.ErrNoSession):
		return response.ErrBadRequest.
			WithCode("csrf_no_session").
			WithMessage("No session to validate the request token against")
	case errors.Is(err, csrf.ErrTokenMissing):
		return response.ErrBadRequest.
			WithCode("csrf_token_missing").
			WithMessage("CSRF token missing")
	case errors.Is(err, csrf.ErrUnsupportedSurface):
		return response.ErrBadRequest.
			WithCode("csrf_surface_not_accepted").
			WithMessage("CSRF token submitted through a delivery surface this server does not accept")
	case errors.Is(err, csrf.ErrTokenExpired):
		return response.ErrBadRequest.
			WithCode("csrf_token_expired").
			WithMessage("CSRF token expired")
	case errors.Is(err, csrf.ErrInvalidToken):
		return response.ErrBadRequest.
			WithCode("csrf_token_invalid").
			WithMessage("CSRF token invalid")
	case errors.Is(err, ErrOriginUntrusted):
		return response.ErrForbidden.
			WithCode("csrf_origin_untrusted").
			WithMessage("Request origin is not trusted")
	}
	return err
}

// rejectionReason returns the machine-readable reason used in logs,
// matching the wire codes of the default error handler.
func rejectionReason(err error) string {
	rejection := csrfRejection(err)

	var httpErr response.HTTPError
	if errors.As(rejection, &httpErr) {
		return httpErr.Code
	}
	return "csrf_internal_error"
}

// isExemptPath reports whether the path matches an exemption entry,
// either exactly or by "/*" prefix.
func isExemptPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}

// trustedOrigin is a parsed TrustedOrigins entry. An empty scheme
// matches any scheme.
type trustedOrigin struct {
	scheme string
	host   string
}

// parseTrustedOrigins validates and normalizes the configured origins.
// Invalid entries are a static misconfiguration and fail construction.
func parseTrustedOrigins(origins []string) ([]trustedOrigin, error) {
	parsed := make([]trustedOrigin, 0, len(origins))
	for _, entry := range origins {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, errors.New("empty trusted origin")
		}

		if strings.Contains(entry, "://") {
			u, err := url.Parse(entry)
			if err != nil || u.Host == "" {
				return nil, errors.New("invalid trusted origin: " + entry)
			}
			parsed = append(parsed, trustedOrigin{
				scheme: strings.ToLower(u.Scheme),
				host:   strings.ToLower(u.Host),
			})
			continue
		}

		if strings.ContainsAny(entry, "/?#") {
			return nil, errors.New("invalid trusted origin: " + entry)
		}
		parsed = append(parsed, trustedOrigin{host: strings.ToLower(entry)})
	}
	return parsed, nil
}

// checkOrigin validates the request's Origin header (falling back to
// Referer, which older browsers send where Origin is absent) against
// the trusted list. A request presenting neither header is rejected:
// with origin enforcement on, silence is not consent.
func checkOrigin(r *http.Request, trusted []trustedOrigin) error {
	raw := r.Header.Get("Origin")
	if raw == "" {
		raw = r.Header.Get("Referer")
	}
	if raw == "" {
		return ErrOriginUntrusted
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ErrOriginUntrusted
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	for _, t := range trusted {
		if t.scheme != "" && t.scheme != scheme {
			continue
		}
		if t.host == host {
			return nil
		}
	}
	return ErrOriginUntrusted
}
