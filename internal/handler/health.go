package handler

import (
	"net/http"

	"github.com/pkordes/pilgrimages/backend/spec"
)

// GetRoot handles GET /. It answers a liveness message inside the standard
// envelope.
func (s *Server) GetRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nil, "API de Peregrinaciones funcionando")
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}

// GetOpenAPI serves the embedded OpenAPI document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
