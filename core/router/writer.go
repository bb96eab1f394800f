package router

import "net/http"

// responseWriter wraps http.ResponseWriter and remembers whether a status has
// been sent. The mux consults it to suppress error rendering after a handler
// already wrote, and to decorate panic logs with the emitted status.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader sends the status once; later calls are dropped so a late error
// path cannot corrupt an already committed response.
func (rw *responseWriter) WriteHeader(status int) {
	if rw.written {
		return
	}
	rw.status = status
	rw.written = true
	rw.ResponseWriter.WriteHeader(status)
}

// Write commits a 200 first if no status was set, matching net/http.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Written reports whether a status has been committed.
func (rw *responseWriter) Written() bool {
	return rw.written
}

// Status returns the committed status, or zero before any write.
func (rw *responseWriter) Status() int {
	return rw.status
}

// Flush forwards to the underlying writer when it supports streaming.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
