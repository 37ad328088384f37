// Package response holds the JSON response helpers shared by every handler,
// so success and error payloads look the same across the API.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error payload shape for every non-2xx response.
// Details carries extra context such as the underlying error string.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code. A nil data
// writes the status code alone. Encoding failures are logged; the status line
// has already gone out by then, so nothing more can be done for the client.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes a structured error payload. Message is the stable,
// user-facing summary; details may be an error string or nil.
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "fund not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}
