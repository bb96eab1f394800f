package response

import (
	"errors"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// statusCode is implemented by errors that map themselves to an HTTP status.
type statusCode interface {
	StatusCode() int
}

// convertToHTTPError normalizes any error into the canonical envelope.
// HTTPError values pass through unchanged; errors implementing statusCode
// pick their catalog entry; everything else becomes a 500 with the cause
// recorded in details.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	if sc, ok := err.(statusCode); ok {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text. Useful for internal tooling
// where a JSON envelope is noise.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as the canonical JSON envelope with the
// envelope's status code. Install it on API routers so rejection responses
// (including CSRF rejections) come out as
//
//	{"code": "...", "message": "...", "details": {...}}
//
//	r := router.New(router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
