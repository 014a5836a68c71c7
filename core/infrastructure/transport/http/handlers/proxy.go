package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nwslgate/nwslgate/core/backend"
	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/guard"
	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/dto"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// ProxyHandler forwards validated SQL and free-text queries to the
// analytics backend
type ProxyHandler struct {
	*BaseHandler
	client *backend.Client
}

// NewProxyHandler creates a proxy handler over the backend client
func NewProxyHandler(client *backend.Client) *ProxyHandler {
	return &ProxyHandler{
		BaseHandler: NewBaseHandler("proxy"),
		client:      client,
	}
}

// SQL handles POST /proxy/sql. The statement passes the read-only guard
// before it leaves the gateway; what comes back is forwarded verbatim.
func (h *ProxyHandler) SQL(w http.ResponseWriter, r *http.Request) {
	var req dto.SQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "Invalid JSON body", err))
		return
	}

	statement, err := guard.Validate(req.SQL)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	result, err := h.client.ExecuteSQL(r.Context(), statement)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Query handles POST /proxy/query. The query is free text for the
// backend's language layer, not SQL, so it bypasses the guard; only
// non-blankness is checked. Options and context objects ride through
// untouched.
func (h *ProxyHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req dto.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "Invalid JSON body", err))
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "Query text is required", nil))
		return
	}

	result, err := h.client.ExecuteQuery(r.Context(), query, domain.QueryExtras{
		Options: req.Options,
		Context: req.Context,
	})
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Health handles GET /proxy/health by relaying the backend's own health
// payload
func (h *ProxyHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload, err := h.client.Health(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
