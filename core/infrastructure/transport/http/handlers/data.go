package handlers

import (
	"net/http"

	"github.com/nwslgate/nwslgate/core/domain/interfaces"
)

// Curated statements behind the fixed /data routes. These are trusted
// gateway-owned SQL and skip the inbound guard, which only polices
// caller-supplied statements.
const (
	leagueStandingsSQL = `
      SELECT
        team_name AS team,
        matches_played AS mp,
        wins AS w,
        draws AS d,
        losses AS l,
        goals_for AS gf,
        goals_against AS ga,
        goal_difference AS gd,
        points AS pts
      FROM agg_team_season
      WHERE season_year = 2024
        AND competition_type = 'regular_season'
      ORDER BY points DESC, goal_difference DESC
      LIMIT 14`

	topScorersSQL = `
      SELECT
        player_name,
        team_name,
        goals,
        assists,
        matches_played
      FROM agg_player_season
      WHERE season_year = 2024
        AND competition_type = 'regular_season'
      ORDER BY goals DESC
      LIMIT 10`

	recentMatchesSQL = `
      SELECT
        match_date,
        home_team,
        away_team,
        home_score,
        away_score,
        attendance
      FROM matches
      ORDER BY match_date DESC
      LIMIT 10`

	teamStatsSQL = `
      SELECT
        team_name AS team,
        ROUND(shot_accuracy, 1) AS shot_acc,
        ROUND(pass_accuracy, 1) AS pass_acc,
        ROUND(avg_possession, 1) AS poss,
        corners_total AS corners,
        fouls_committed AS fouls
      FROM agg_team_season
      WHERE season_year = 2024
        AND competition_type = 'regular_season'
      ORDER BY pass_accuracy DESC
      LIMIT 14`
)

// DataHandler serves the curated fixed-query routes used by the landing
// pages
type DataHandler struct {
	*BaseHandler
	executor interfaces.SQLExecutor
}

// NewDataHandler creates a data handler over the SQL executor
func NewDataHandler(executor interfaces.SQLExecutor) *DataHandler {
	return &DataHandler{
		BaseHandler: NewBaseHandler("data"),
		executor:    executor,
	}
}

// LeagueStandings handles GET /data/league-standings
func (h *DataHandler) LeagueStandings(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, leagueStandingsSQL)
}

// TopScorers handles GET /data/top-scorers
func (h *DataHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, topScorersSQL)
}

// RecentMatches handles GET /data/recent-matches
func (h *DataHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, recentMatchesSQL)
}

// TeamStats handles GET /data/team-stats
func (h *DataHandler) TeamStats(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, teamStatsSQL)
}

func (h *DataHandler) run(w http.ResponseWriter, r *http.Request, statement string) {
	result, err := h.executor.ExecuteSQL(r.Context(), statement)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
