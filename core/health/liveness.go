package health

import (
	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/response"
)

// Liveness reports that the process is up. It always answers "ALIVE" with
// 200 OK and never touches dependencies.
//
// Example:
//
//	router.Get("/health/live", health.Liveness[*app.Context])
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

// NoContent answers HTTP 204 with no body, for high-frequency probes where
// even a short payload is waste.
//
// Example:
//
//	router.Get("/ping", health.NoContent[*app.Context])
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}
