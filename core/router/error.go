package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// Registration mistakes panic at startup; the dispatch errors flow
// through the error handler at request time.
var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNotFound         = errors.New("not found")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilRouter        = errors.New("nil router")
	ErrNilSubrouter     = errors.New("nil subrouter")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrWildcardPosition = errors.New("wildcard must be the last pattern segment")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrDuplicateRoute   = errors.New("duplicate route registration")
)

// statusCode lets an error carry its own HTTP status. response.HTTPError
// implements it, so handler errors reach the client with the right code
// even under the default error handler.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler writes a plain-text error when no custom handler
// is installed. It stays silent if the response already went out.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		if sc, ok := err.(statusCode); ok {
			status = sc.StatusCode()
		}
	}

	http.Error(w, err.Error(), status)
}

// PanicError is the error the router hands to the error handler after
// recovering a panic. Handlers can pull out the original panic value and
// the stack captured at the panic site, typically to log the stack while
// returning a generic 500 to the client.
type PanicError interface {
	error
	// Value returns the recovered panic value.
	Value() any
	// Stack returns the goroutine stack captured during recovery.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap exposes the cause when the code panicked with an error value,
// so errors.Is and errors.As see through the recovery wrapper.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
