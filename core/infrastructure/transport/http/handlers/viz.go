package handlers

import (
	"net/http"
	"strconv"

	"github.com/nwslgate/nwslgate/core/shared/errors"
	"github.com/nwslgate/nwslgate/core/viz"
)

// VizHandler proxies shot-map rendering to the visualization service
type VizHandler struct {
	*BaseHandler
	client *viz.Client
}

// NewVizHandler creates a viz handler. The client may be nil when the
// visualization service is not configured.
func NewVizHandler(client *viz.Client) *VizHandler {
	return &VizHandler{
		BaseHandler: NewBaseHandler("viz"),
		client:      client,
	}
}

// ShotMap handles GET /viz/shot-map?team=...&season=...&forceRefresh=true
func (h *VizHandler) ShotMap(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeNotConfigured,
			"visualization service is not configured", nil))
		return
	}

	team := r.URL.Query().Get("team")
	if team == "" {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput,
			"team query parameter is required", nil))
		return
	}

	req := viz.ShotMapRequest{
		TeamName:     team,
		ForceRefresh: r.URL.Query().Get("forceRefresh") == "true",
	}
	if raw := r.URL.Query().Get("season"); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput,
				"season must be an integer", err))
			return
		}
		req.Season = &season
	}

	envelope, err := h.client.GenerateShotMap(r.Context(), req)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, envelope)
}
