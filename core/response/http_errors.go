package response

import "net/http"

// HTTPError is the canonical error envelope. It implements the error
// interface and carries the HTTP status out of band: only code, message,
// and details serialize, so the wire shape stays {"code", "message",
// "details"} no matter where the error originated.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates a 500-class HTTPError with a custom message.
func NewHTTPError(message string) HTTPError {
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: message,
	}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode reports the HTTP status, satisfying the router's statusCode
// interface so the default error handler writes the right code.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithCode returns a copy with a more specific machine code. Use it to
// specialize a catalog entry, e.g. ErrBadRequest.WithCode("csrf_token_missing").
func (e HTTPError) WithCode(code string) HTTPError {
	e.Code = code
	return e
}

// WithMessage returns a copy with a custom human-readable message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy with the given details map attached.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy with the cause recorded under details["cause"].
func (e HTTPError) WithError(err error) HTTPError {
	if e.Details == nil {
		e.Details = map[string]any{"cause": err.Error()}
	} else {
		e.Details["cause"] = err.Error()
	}
	return e
}

// httpErrorsByStatus indexes the catalog below so a bare status code can
// be mapped back to its envelope. catalogError fills it as the catalog
// variables initialize.
var httpErrorsByStatus = map[int]HTTPError{}

func catalogError(status int, code string) HTTPError {
	e := HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
	httpErrorsByStatus[status] = e
	return e
}

// Catalog of ready-made envelopes. Handlers specialize them with the
// With* decorators rather than constructing HTTPError values inline.
var (
	ErrBadRequest            = catalogError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = catalogError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = catalogError(http.StatusForbidden, "forbidden")
	ErrNotFound              = catalogError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = catalogError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrNotAcceptable         = catalogError(http.StatusNotAcceptable, "not_acceptable")
	ErrRequestTimeout        = catalogError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict              = catalogError(http.StatusConflict, "conflict")
	ErrGone                  = catalogError(http.StatusGone, "gone")
	ErrRequestEntityTooLarge = catalogError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = catalogError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = catalogError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrPreconditionRequired  = catalogError(http.StatusPreconditionRequired, "precondition_required")
	ErrTooManyRequests       = catalogError(http.StatusTooManyRequests, "too_many_requests")

	ErrInternalServerError = catalogError(http.StatusInternalServerError, "internal_server_error")
	ErrNotImplemented      = catalogError(http.StatusNotImplemented, "not_implemented")
	ErrBadGateway          = catalogError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable  = catalogError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout      = catalogError(http.StatusGatewayTimeout, "gateway_timeout")
)
