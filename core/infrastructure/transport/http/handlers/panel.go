package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nwslgate/nwslgate/core/resolver"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// PanelHandler serves read-side panel resolution
type PanelHandler struct {
	*BaseHandler
	resolver *resolver.Resolver
}

// NewPanelHandler creates a panel handler over the resolver
func NewPanelHandler(res *resolver.Resolver) *PanelHandler {
	return &PanelHandler{
		BaseHandler: NewBaseHandler("panel"),
		resolver:    res,
	}
}

// Get handles GET /panel/{slug}?limit=N&tab=id. A limit that is present
// but not a positive integer is rejected here, before the resolver does
// any work against the store or backend.
func (h *PanelHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	opts := resolver.Options{TabID: r.URL.Query().Get("tab")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidLimit,
				"limit must be a positive integer", err))
			return
		}
		opts.LimitOverride = &limit
	}

	result, err := h.resolver.Resolve(r.Context(), slug, opts)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
