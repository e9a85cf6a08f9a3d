package web

import (
	"net/http"

	"github.com/desertthunder/mise/internal/server"
)

var _ server.Handler = healthHandler{}

// healthHandler answers liveness probes.
type healthHandler struct{}

func (healthHandler) Routes() []string { return []string{"GET /healthz"} }

func (healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
