package middleware

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// rejection is the body middleware writes when it refuses a request before
// any handler runs. It has the same shape as the handler envelope.
type rejection struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejection{Message: message})
}
