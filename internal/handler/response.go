package handler

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// writeJSON writes data wrapped in the envelope. success is derived from the
// status code so callers cannot get the two out of step.
func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: status >= 200 && status < 300,
		Data:    data,
		Message: message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, nil, message)
}

// rootMessage returns the text of the innermost error in err's chain, so the
// "service.PilgrimageService.List: " style prefixes stay out of responses.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
