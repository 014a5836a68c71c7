package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nwslgate/nwslgate/core/backend"
	"github.com/nwslgate/nwslgate/core/cache"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// sectionSpec describes one dashboard aggregate view: which query params
// it accepts and which of those must parse as integers to be forwarded.
type sectionSpec struct {
	params  []string
	numeric map[string]bool
	enums   map[string][]string
}

// dashboardSections is the allowlist of backend aggregate views. An
// unknown section 404s here instead of probing the backend.
var dashboardSections = map[string]sectionSpec{
	"summary": {
		params:  []string{"season"},
		numeric: map[string]bool{"season": true},
	},
	"team-overview": {
		params:  []string{"season", "competition"},
		numeric: map[string]bool{"season": true},
	},
	"player-valuation": {
		params:  []string{"season", "competition", "teamId", "minMinutes", "limit", "orderBy"},
		numeric: map[string]bool{"season": true, "minMinutes": true, "limit": true},
		enums:   map[string][]string{"orderBy": {"xt", "vaep"}},
	},
	"goalkeepers": {
		params:  []string{"season", "competition", "teamId"},
		numeric: map[string]bool{"season": true},
	},
	"momentum": {
		params: []string{"matchId"},
	},
	"player-style": {
		params:  []string{"season", "competition", "playerId", "playerName"},
		numeric: map[string]bool{"season": true},
	},
	"lookups": {},
}

// DashboardHandler proxies read-only aggregate views with a short TTL
// cache in front. Failures surface as structured 502s; there is no
// fixture fallback, stale data comes only from the cache.
type DashboardHandler struct {
	*BaseHandler
	client *backend.Client
	cache  *cache.ResponseCache
}

// NewDashboardHandler creates a dashboard handler. The cache may be nil
// when caching is disabled.
func NewDashboardHandler(client *backend.Client, responseCache *cache.ResponseCache) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler("dashboard"),
		client:      client,
		cache:       responseCache,
	}
}

// Get handles GET /dashboard/{section}
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	spec, ok := dashboardSections[section]
	if !ok {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeNotFound,
			"unknown dashboard section '"+section+"'", nil))
		return
	}

	params := filterParams(r.URL.Query(), spec)
	key := cache.Key("dashboard:"+section, params)

	if h.cache != nil {
		if payload, hit := h.cache.GetBytes(key); hit {
			writeRawJSON(w, payload)
			return
		}
	}

	payload, err := h.client.DashboardSection(r.Context(), section, params)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.SetBytes(key, payload)
	}
	writeRawJSON(w, payload)
}

// filterParams keeps only the params the section accepts, dropping
// numeric params that do not parse and enum params outside their set.
// Bad filter values degrade to the unfiltered view rather than erroring.
func filterParams(query url.Values, spec sectionSpec) url.Values {
	out := url.Values{}
	for _, name := range spec.params {
		value := query.Get(name)
		if value == "" {
			continue
		}
		if spec.numeric[name] {
			if _, err := strconv.Atoi(value); err != nil {
				continue
			}
		}
		if allowed, ok := spec.enums[name]; ok && !contains(allowed, value) {
			continue
		}
		out.Set(name, value)
	}
	return out
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
