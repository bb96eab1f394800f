package middleware

import (
	"maps"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields emit no header.
type SecurityHeadersConfig struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx handler.Context) bool

	// ContentTypeOptions sets X-Content-Type-Options.
	ContentTypeOptions string

	// FrameOptions sets X-Frame-Options.
	FrameOptions string

	// StrictTransportSecurity sets Strict-Transport-Security.
	StrictTransportSecurity string

	// ContentSecurityPolicy sets Content-Security-Policy. The
	// form-action and frame-ancestors directives matter most here:
	// form-action limits where forms may submit, frame-ancestors stops
	// clickjacking overlays that trick users into submitting them.
	ContentSecurityPolicy string

	// ReferrerPolicy sets Referrer-Policy. Policies that strip the path
	// still send the origin, so the Referer fallback of origin checking
	// keeps working.
	ReferrerPolicy string

	// CustomHeaders adds arbitrary extra headers to every response.
	CustomHeaders map[string]string

	// IsDevelopment drops HSTS for local plain-HTTP development.
	IsDevelopment bool
}

var (
	// StrictSecurity locks forms to the serving origin and refuses all
	// framing. Use it when the application is the only legitimate place
	// its forms can live.
	StrictSecurity = SecurityHeadersConfig{
		ContentTypeOptions:      "nosniff",
		FrameOptions:            "DENY",
		StrictTransportSecurity: "max-age=63072000; includeSubDomains; preload",
		ContentSecurityPolicy:   "default-src 'self'; form-action 'self'; frame-ancestors 'none'; base-uri 'self'",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
	}

	// BalancedSecurity provides good protection with compatibility.
	// Same-origin framing stays possible and the CSP constrains only the
	// directives related to form submission.
	BalancedSecurity = SecurityHeadersConfig{
		ContentTypeOptions:      "nosniff",
		FrameOptions:            "SAMEORIGIN",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:   "form-action 'self'; frame-ancestors 'self'",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
	}

	// DevelopmentSecurity provides minimal headers for local development.
	// WARNING: Never use in production.
	DevelopmentSecurity = SecurityHeadersConfig{
		ContentTypeOptions: "nosniff",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      true,
	}
)

// SecurityHeaders creates a security headers middleware with the balanced
// configuration. The headers complement token verification: form-action
// confines where forms submit, frame-ancestors and X-Frame-Options block
// clickjacking, HSTS keeps the session cookie off plaintext connections.
//
// Usage:
//
//	r.Use(middleware.SecurityHeaders[*Context]())
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](BalancedSecurity)
}

// SecurityHeadersStrict creates a security headers middleware with the
// strict configuration: no framing at all and a default-src 'self' CSP.
func SecurityHeadersStrict[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](StrictSecurity)
}

// SecurityHeadersWithConfig creates a security headers middleware with
// custom configuration. Start from one of the presets and adjust:
//
//	cfg := middleware.BalancedSecurity
//	cfg.ContentSecurityPolicy = "form-action 'self' https://checkout.example.com; frame-ancestors 'self'"
//	cfg.Skip = func(ctx handler.Context) bool {
//		return strings.HasPrefix(ctx.Request().URL.Path, "/embed/")
//	}
//	r.Use(middleware.SecurityHeadersWithConfig[*Context](cfg))
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	// The header set never changes per request, so build it once.
	headers := make(map[string]string)
	if cfg.ContentTypeOptions != "" {
		headers["X-Content-Type-Options"] = cfg.ContentTypeOptions
	}
	if cfg.FrameOptions != "" {
		headers["X-Frame-Options"] = cfg.FrameOptions
	}
	if cfg.StrictTransportSecurity != "" {
		headers["Strict-Transport-Security"] = cfg.StrictTransportSecurity
	}
	if cfg.ContentSecurityPolicy != "" {
		headers["Content-Security-Policy"] = cfg.ContentSecurityPolicy
	}
	if cfg.ReferrerPolicy != "" {
		headers["Referrer-Policy"] = cfg.ReferrerPolicy
	}

	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				for key, value := range headers {
					w.Header().Set(key, value)
				}
				return resp(w, r)
			}
		}
	}
}
