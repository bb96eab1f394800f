package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/logger"
)

// LoggingConfig configures the request/response logging middleware.
type LoggingConfig struct {
	// Skip bypasses logging for matching requests, e.g. health probes.
	Skip func(ctx handler.Context) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// LogLevel is the base level for request lines. Defaults to info;
	// error responses and slow requests escalate regardless.
	LogLevel slog.Level

	// LogRequest and LogResponse select which line gets emitted. Both
	// default to on when neither is set.
	LogRequest  bool
	LogResponse bool

	// LogRequestBody captures the request body up to MaxBodyLogSize.
	// Off by default since bodies routinely carry credentials.
	LogRequestBody bool

	// LogHeaders captures headers with sensitive entries redacted. Off
	// by default.
	LogHeaders bool

	// MaxBodyLogSize caps logged body bytes. Defaults to 4KB.
	MaxBodyLogSize int

	// SensitiveHeaders lists header names to redact. The default covers
	// credentials and anti-forgery material: Authorization, Cookie,
	// Set-Cookie, X-Api-Key, X-Auth-Token, X-Csrf-Token.
	SensitiveHeaders []string

	// SlowRequestThreshold marks requests slower than this as warnings.
	// Defaults to 5s.
	SlowRequestThreshold time.Duration

	// Component tags every line, "http" unless overridden.
	Component string
}

// Logging creates a request/response logging middleware with default
// configuration: request and response lines at info level, no bodies,
// no headers.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{
		Logger: log,
	})
}

// LoggingWithConfig creates a request/response logging middleware with
// custom configuration. Responses with 4xx status, which include every
// CSRF rejection, log at warn level so token failures stand out without
// raising the global level.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}

	if !cfg.LogRequest && !cfg.LogResponse {
		cfg.LogRequest = true
		cfg.LogResponse = true
	}

	if cfg.MaxBodyLogSize <= 0 {
		cfg.MaxBodyLogSize = 4 * 1024
	}

	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}

	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()

			requestID, _ := GetRequestID(ctx)

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Event("request"),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.RemoteAddr(req.RemoteAddr),
			}

			if requestID != "" {
				attrs = append(attrs, logger.RequestID(requestID))
			}

			if req.URL.RawQuery != "" {
				attrs = append(attrs, logger.Query(req.URL.RawQuery))
			}

			// Reading the body consumes it, so replace it with a replay
			// buffer for the form parser downstream.
			if cfg.LogRequestBody && req.Body != nil {
				requestBody, _ := io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewBuffer(requestBody))

				if len(requestBody) > 0 {
					bodyToLog := requestBody
					if len(bodyToLog) > cfg.MaxBodyLogSize {
						bodyToLog = bodyToLog[:cfg.MaxBodyLogSize]
						attrs = append(attrs, slog.Bool("request_body_truncated", true))
					}
					attrs = append(attrs, slog.String("request_body", string(bodyToLog)))
				}
			}

			if cfg.LogHeaders {
				if headers := redactHeaders(req.Header, cfg.SensitiveHeaders); len(headers) > 0 {
					attrs = append(attrs, slog.Any("request_headers", headers))
				}
			}

			if cfg.LogRequest {
				cfg.Logger.LogAttrs(req.Context(), cfg.LogLevel, "HTTP request started", attrs...)
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &responseWriter{
					ResponseWriter: w,
					statusCode:     http.StatusOK,
				}
				err := resp(wrapped, r)

				duration := time.Since(start)

				// An error escaping an unwritten response is handled by
				// the router's error handler after this wrapper returns;
				// mirror the status it will write so the log line matches
				// the wire.
				status := wrapped.statusCode
				if err != nil && !wrapped.headerWritten {
					status = http.StatusInternalServerError
					if sc, ok := err.(interface{ StatusCode() int }); ok {
						status = sc.StatusCode()
					}
				}

				respAttrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Event("response"),
					logger.Method(req.Method),
					logger.Path(req.URL.Path),
					logger.StatusCode(status),
					logger.BytesOut(int64(wrapped.size)),
					logger.Duration(duration),
				}

				if requestID != "" {
					respAttrs = append(respAttrs, logger.RequestID(requestID))
				}

				if cfg.LogHeaders && wrapped.headerWritten {
					if headers := redactHeaders(w.Header(), cfg.SensitiveHeaders); len(headers) > 0 {
						respAttrs = append(respAttrs, slog.Any("response_headers", headers))
					}
				}

				level := cfg.LogLevel
				switch {
				case status >= 500:
					level = slog.LevelError
					respAttrs = append(respAttrs, logger.Error(err))
				case status >= 400:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					respAttrs = append(respAttrs, slog.Bool("slow_request", true))
				}

				if cfg.LogResponse {
					cfg.Logger.LogAttrs(req.Context(), level, "HTTP request completed", respAttrs...)
				}

				return err
			}
		}
	}
}

// redactHeaders flattens a header map for logging, masking sensitive
// entries. Keys are matched in canonical form.
func redactHeaders(h http.Header, sensitive []string) map[string]any {
	headers := make(map[string]any, len(h))
	for key, values := range h {
		if slices.Contains(sensitive, key) {
			headers[key] = "[REDACTED]"
			continue
		}
		if len(values) == 1 {
			headers[key] = values[0]
		} else {
			headers[key] = values
		}
	}
	return headers
}

// responseWriter records the status and byte count that actually went
// out so the completion line can report them.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}
