package response

import (
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// Render executes the given response against the context's writer.
// If the response itself fails, a plain 500 is written as a last resort.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// write backs the plain-content constructors. A zero status resolves to
// 200, an empty content type leaves the header untouched, and empty
// content produces a header-only response.
func write(contentType string, content []byte, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// String responds with text/plain content and 200 OK.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus responds with text/plain content and the given status.
func StringWithStatus(content string, status int) handler.Response {
	return write("text/plain; charset=utf-8", []byte(content), status)
}

// HTML responds with text/html content and 200 OK.
func HTML(content string) handler.Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus responds with text/html content and the given status.
func HTMLWithStatus(content string, status int) handler.Response {
	return write("text/html; charset=utf-8", []byte(content), status)
}

// Bytes responds with raw content under the given content type and 200 OK.
func Bytes(content []byte, contentType string) handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus responds with raw content under the given content type
// and status.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return write(contentType, content, status)
}

// NoContent responds with 204 No Content, the canonical ack for
// operations that have nothing to return.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status responds with the given status code and no body.
func Status(code int) handler.Response {
	return write("", nil, code)
}
