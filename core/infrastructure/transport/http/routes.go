package http

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nwslgate/nwslgate/core/backend"
	"github.com/nwslgate/nwslgate/core/cache"
	"github.com/nwslgate/nwslgate/core/config"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/handlers"
	httpmiddleware "github.com/nwslgate/nwslgate/core/infrastructure/transport/http/middleware"
	"github.com/nwslgate/nwslgate/core/resolver"
	"github.com/nwslgate/nwslgate/core/viz"
	"github.com/nwslgate/nwslgate/core/warehouse"
)

// Dependencies bundles everything route registration needs. Optional
// collaborators are nil when their configuration is absent and their
// routes respond accordingly.
type Dependencies struct {
	Config        *config.Config
	Backend       *backend.Client
	Resolver      *resolver.Resolver
	ResponseCache *cache.ResponseCache
	Warehouse     *warehouse.Service
	Viz           *viz.Client
	RateLimiter   httpmiddleware.RateLimiter
	Version       string
}

// Rate limit applied to the raw proxy routes when Redis is configured
const (
	proxyRateLimit  = 60
	proxyRateWindow = time.Minute
)

// RegisterRoutes registers all gateway routes
func RegisterRoutes(r *chi.Mux, deps Dependencies) {
	log := logging.New("routes")
	log.Infof("Registering HTTP routes")

	proxyHandler := handlers.NewProxyHandler(deps.Backend)
	panelHandler := handlers.NewPanelHandler(deps.Resolver)
	adminHandler := handlers.NewAdminHandler(deps.Backend, deps.Config)
	dashboardHandler := handlers.NewDashboardHandler(deps.Backend, deps.ResponseCache)
	dataHandler := handlers.NewDataHandler(deps.Backend)
	statsHandler := handlers.NewStatsHandler(deps.Backend, deps.Warehouse)
	vizHandler := handlers.NewVizHandler(deps.Viz)

	r.Route("/proxy", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(httpmiddleware.RateLimitByIP(deps.RateLimiter, proxyRateLimit, proxyRateWindow))
		}
		r.Post("/sql", proxyHandler.SQL)
		r.Post("/query", proxyHandler.Query)
		r.Get("/health", proxyHandler.Health)
	})

	r.Get("/panel/{slug}", panelHandler.Get)

	r.Route("/admin/panels", func(r chi.Router) {
		r.Get("/", adminHandler.List)
		r.Post("/", adminHandler.Create)
		r.Get("/{slug}", adminHandler.Get)
		r.Put("/{slug}", adminHandler.Update)
		r.Delete("/{slug}", adminHandler.Delete)
	})

	r.Get("/dashboard/{section}", dashboardHandler.Get)

	r.Route("/data", func(r chi.Router) {
		r.Get("/league-standings", dataHandler.LeagueStandings)
		r.Get("/top-scorers", dataHandler.TopScorers)
		r.Get("/recent-matches", dataHandler.RecentMatches)
		r.Get("/team-stats", dataHandler.TeamStats)
	})

	r.Get("/stats", statsHandler.Stats)
	r.Get("/warehouse/stats", statsHandler.WarehouseStats)

	r.Get("/viz/shot-map", vizHandler.ShotMap)

	baseURL := fmt.Sprintf("http://localhost:%s", deps.Config.Port)
	r.Get("/docs", handlers.OpenAPISpecHandler(baseURL, deps.Version))
	r.Get("/healthz", handlers.HealthzHandler(deps.Version))
	r.Handle("/metrics", promhttp.Handler())

	log.Debugf("Routes registered: proxy, panel, admin, dashboard, data, stats, viz, docs")
}
