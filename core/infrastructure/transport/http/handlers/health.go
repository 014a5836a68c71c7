package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/dto"
)

// HealthzHandler reports gateway liveness without touching any upstream.
// Backend reachability is /proxy/health's job.
func HealthzHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(dto.HealthzResponse{Status: "ok", Version: version})
	}
}
