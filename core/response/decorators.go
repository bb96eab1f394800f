package response

import (
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// WithHeaders wraps a response with custom HTTP headers, set before the
// wrapped response renders. The CSRF middleware uses this shape to echo the
// current token to script clients.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil {
		return nil
	}
	if len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}

// WithCookie wraps a response with an HTTP cookie, set before the wrapped
// response renders.
func WithCookie(response handler.Response, cookie *http.Cookie) handler.Response {
	if response == nil || cookie == nil {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.SetCookie(w, cookie)
		return response(w, r)
	}
}
