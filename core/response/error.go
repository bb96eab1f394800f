package response

import (
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// Error returns a response that propagates the given error to the router's
// error pipeline. Handlers and middleware use it to reject a request, for
// example a failed CSRF verification, and let the configured error handler
// decide the wire format.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
