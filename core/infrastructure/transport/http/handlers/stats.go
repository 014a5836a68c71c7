package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/domain/interfaces"
	"github.com/nwslgate/nwslgate/core/shared/errors"
	"github.com/nwslgate/nwslgate/core/warehouse"
)

// statCounts are the headline table counts computed through the backend
var statCounts = []struct {
	name string
	sql  string
}{
	{"matches", "SELECT COUNT(*) as count FROM matches"},
	{"players", "SELECT COUNT(DISTINCT player_id) as count FROM players"},
	{"teams", "SELECT COUNT(DISTINCT team_id) as count FROM teams"},
	{"events", "SELECT COUNT(*) as count FROM events"},
}

// StatsHandler serves headline record counts. /stats fans out four count
// queries through the backend; /warehouse/stats reads the warehouse
// directly and is only mounted when a connection string is configured.
type StatsHandler struct {
	*BaseHandler
	executor  interfaces.SQLExecutor
	warehouse *warehouse.Service
}

// NewStatsHandler creates a stats handler. The warehouse service may be
// nil when direct warehouse access is not configured.
func NewStatsHandler(executor interfaces.SQLExecutor, wh *warehouse.Service) *StatsHandler {
	return &StatsHandler{
		BaseHandler: NewBaseHandler("stats"),
		executor:    executor,
		warehouse:   wh,
	}
}

// Stats handles GET /stats. The four counts run concurrently; one
// failure fails the whole response since partial counts mislead more
// than they help.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts := make([]int64, len(statCounts))

	g, ctx := errgroup.WithContext(r.Context())
	for i, stat := range statCounts {
		g.Go(func() error {
			result, err := h.executor.ExecuteSQL(ctx, stat.sql)
			if err != nil {
				return err
			}
			counts[i] = firstCount(result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.WriteError(w, err)
		return
	}

	response := make(map[string]int64, len(statCounts))
	for i, stat := range statCounts {
		response[stat.name] = counts[i]
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// WarehouseStats handles GET /warehouse/stats
func (h *StatsHandler) WarehouseStats(w http.ResponseWriter, r *http.Request) {
	if h.warehouse == nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeNotConfigured,
			"warehouse statistics are not configured", nil))
		return
	}

	stats, err := h.warehouse.Stats(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// firstCount pulls the count column from the first row, tolerating the
// numeric types JSON decoding may produce
func firstCount(result *domain.QueryResult) int64 {
	if result == nil || len(result.Results) == 0 {
		return 0
	}
	switch v := result.Results[0]["count"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
