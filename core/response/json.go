package response

import (
	"encoding/json"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// JSON responds with application/json content and 200 OK, streaming the
// encoding straight to the writer.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus responds with application/json content and the given
// status. A zero status resolves to 200, or 204 when v is nil; 204 and
// 304 responses never carry a body per the HTTP spec.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}
