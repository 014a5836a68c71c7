// Package runtime wires configuration, upstream clients, caches, and the
// HTTP server into a single startable gateway.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nwslgate/nwslgate/core/backend"
	"github.com/nwslgate/nwslgate/core/cache"
	"github.com/nwslgate/nwslgate/core/config"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	transport "github.com/nwslgate/nwslgate/core/infrastructure/transport/http"
	httpmiddleware "github.com/nwslgate/nwslgate/core/infrastructure/transport/http/middleware"
	"github.com/nwslgate/nwslgate/core/observability"
	"github.com/nwslgate/nwslgate/core/resolver"
	"github.com/nwslgate/nwslgate/core/viz"
	"github.com/nwslgate/nwslgate/core/warehouse"
)

// Runtime is the assembled gateway
type Runtime struct {
	cfg           *config.Config
	server        *transport.Server
	responseCache *cache.ResponseCache
	warehouse     *warehouse.Service
	redisClient   *redis.Client
	version       string
	log           logging.Logger
}

// New builds a runtime from configuration. Optional upstreams (viz,
// warehouse, Redis) are wired only when configured; their routes degrade
// gracefully rather than failing startup.
func New(cfg *config.Config, version string) (*Runtime, error) {
	log := logging.New("runtime")

	otelCfg := observability.ResolveConfig(version)
	if err := observability.Initialize(otelCfg); err != nil {
		log.Warnf("Telemetry initialization failed, continuing without it: %v", err)
	}

	client := backend.NewClient(cfg.APIBaseURL, cfg.APIKey,
		backend.WithAdminToken(cfg.PanelAdminToken))

	rt := &Runtime{
		cfg:     cfg,
		version: version,
		log:     log,
	}

	if cfg.CacheTTL > 0 {
		rt.responseCache = cache.New(cfg.CacheTTL)
	}

	if cfg.WarehouseConfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		wh, err := warehouse.NewService(ctx, cfg.WarehouseURL, cfg.WarehouseSSL, cfg.CacheTTL)
		if err != nil {
			log.Warnf("Warehouse connection failed, /warehouse/stats disabled: %v", err)
		} else {
			rt.warehouse = wh
		}
	}

	var vizClient *viz.Client
	if cfg.VizConfigured() {
		vizClient = viz.NewClient(cfg.VizBaseURL, cfg.VizToken)
	}

	var limiter httpmiddleware.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warnf("Invalid Redis URL, proxy rate limiting disabled: %v", err)
		} else {
			rt.redisClient = redis.NewClient(opts)
			limiter = httpmiddleware.NewRedisRateLimiter(rt.redisClient)
		}
	}

	server := transport.NewServer(cfg.Port)
	transport.RegisterRoutes(server.Router(), transport.Dependencies{
		Config:        cfg,
		Backend:       client,
		Resolver:      resolver.New(client, client),
		ResponseCache: rt.responseCache,
		Warehouse:     rt.warehouse,
		Viz:           vizClient,
		RateLimiter:   limiter,
		Version:       version,
	})
	rt.server = server

	return rt, nil
}

// Start starts the gateway and blocks until SIGINT/SIGTERM
func (r *Runtime) Start() error {
	if err := r.StartAsync(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return r.Stop()
}

// StartAsync starts the gateway without blocking
func (r *Runtime) StartAsync() error {
	return r.server.StartAsync()
}

// Stop shuts the gateway down gracefully: HTTP server first so no new
// work arrives, then the pooled clients and telemetry.
func (r *Runtime) Stop() error {
	err := r.server.Stop()

	if r.responseCache != nil {
		r.responseCache.Close()
	}
	if r.warehouse != nil {
		r.warehouse.Close()
	}
	if r.redisClient != nil {
		if closeErr := r.redisClient.Close(); closeErr != nil {
			r.log.Warnf("Error closing Redis client: %v", closeErr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := observability.Shutdown(ctx); shutdownErr != nil {
		r.log.Warnf("Telemetry shutdown error: %v", shutdownErr)
	}

	return err
}
