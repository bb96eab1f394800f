package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hardenlab/csrfkit/core/handler"
)

// requestIDContextKey keeps the assigned ID private to this package.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx handler.Context) bool
	// Generator produces new IDs. Defaults to random UUIDs.
	Generator func() string
	// HeaderName is the request and response header carrying the ID.
	// Defaults to X-Request-ID.
	HeaderName string
	// UseExisting trusts an ID already present on the incoming request,
	// e.g. one assigned by a front proxy.
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// Each request gets a UUID that appears in the response headers and in
// every log line emitted for the request, so a rejected submission can be
// traced from the client error back to the verification log entry.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}

	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var requestID string
			if cfg.UseExisting {
				requestID = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if requestID == "" {
				requestID = cfg.Generator()
			}

			ctx.SetValue(requestIDContextKey{}, requestID)

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, requestID)
				return resp(w, r)
			}
		}
	}
}

// GetRequestID returns the ID the middleware assigned to this request,
// and false when the middleware did not run.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
