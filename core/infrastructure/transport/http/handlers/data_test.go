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

func newDataRouter(t *testing.T, backendHandler http.HandlerFunc) *chi.Mux {
	t.Helper()
	h := handlers.NewDataHandler(newBackend(t, backendHandler))
	r := chi.NewRouter()
	r.Get("/data/league-standings", h.LeagueStandings)
	r.Get("/data/top-scorers", h.TopScorers)
	r.Get("/data/recent-matches", h.RecentMatches)
	r.Get("/data/team-stats", h.TeamStats)
	return r
}

func TestDataLeagueStandings(t *testing.T) {
	var received string
	router := newDataRouter(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = body["sql"]
		json.NewEncoder(w).Encode(map[string]any{
			"results":   []map[string]any{{"team": "Current", "pts": 54}},
			"row_count": 1,
		})
	})

	rec := getPath(t, router, "/data/league-standings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, received, "FROM agg_team_season")
	assert.Contains(t, received, "ORDER BY points DESC")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["row_count"])
}

func TestDataRoutesUseCuratedSQL(t *testing.T) {
	expectations := map[string]string{
		"/data/top-scorers":    "FROM agg_player_season",
		"/data/recent-matches": "FROM matches",
		"/data/team-stats":     "pass_accuracy",
	}

	for path, fragment := range expectations {
		var received string
		router := newDataRouter(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			received = body["sql"]
			json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "row_count": 0})
		})

		rec := getPath(t, router, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, received, fragment, path)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(received), "SELECT"), path)
	}
}

func TestDataUpstreamFailure(t *testing.T) {
	router := newDataRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := getPath(t, router, "/data/recent-matches")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
