package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/handlers"
)

func TestStatsFansOutCounts(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		count := 0
		switch {
		case strings.Contains(body["sql"], "FROM matches"):
			count = 100
		case strings.Contains(body["sql"], "FROM players"):
			count = 200
		case strings.Contains(body["sql"], "FROM teams"):
			count = 14
		case strings.Contains(body["sql"], "FROM events"):
			count = 50000
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results":   []map[string]any{{"count": count}},
			"row_count": 1,
		})
	})

	h := handlers.NewStatsHandler(client, nil)
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)

	rec := getPath(t, r, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp["matches"])
	assert.Equal(t, int64(200), resp["players"])
	assert.Equal(t, int64(14), resp["teams"])
	assert.Equal(t, int64(50000), resp["events"])
}

func TestStatsFailsOnAnyCountFailure(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if strings.Contains(body["sql"], "FROM events") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results":   []map[string]any{{"count": 1}},
			"row_count": 1,
		})
	})

	h := handlers.NewStatsHandler(client, nil)
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)

	rec := getPath(t, r, "/stats")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWarehouseStatsNotConfigured(t *testing.T) {
	h := handlers.NewStatsHandler(nil, nil)
	r := chi.NewRouter()
	r.Get("/warehouse/stats", h.WarehouseStats)

	rec := getPath(t, r, "/warehouse/stats")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp["error"], "NWSL_DATA_WAREHOUSE_URL")
}
