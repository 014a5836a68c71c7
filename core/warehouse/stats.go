// Package warehouse provides direct read-only access to the NWSL data
// warehouse for aggregate record counts. This is the one place the gateway
// touches a database itself instead of going through the analytics backend.
package warehouse

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// Stats are headline record counts used on the landing dashboard
type Stats struct {
	Events  int64 `json:"events"`
	Passes  int64 `json:"passes"`
	Shots   int64 `json:"shots"`
	Matches int64 `json:"matches"`
	Players int64 `json:"players"`
	Seasons int64 `json:"seasons"`
}

// statsQuery aggregates across the per-season event partitions plus the
// SPADL action and dimension tables
const statsQuery = `
WITH event_totals AS (
  SELECT COUNT(*) AS count FROM fact_event_2013
  UNION ALL SELECT COUNT(*) FROM fact_event_2014
  UNION ALL SELECT COUNT(*) FROM fact_event_2015
  UNION ALL SELECT COUNT(*) FROM fact_event_2016
  UNION ALL SELECT COUNT(*) FROM fact_event_2017
  UNION ALL SELECT COUNT(*) FROM fact_event_2018
  UNION ALL SELECT COUNT(*) FROM fact_event_2019
  UNION ALL SELECT COUNT(*) FROM fact_event_2020
  UNION ALL SELECT COUNT(*) FROM fact_event_2021
  UNION ALL SELECT COUNT(*) FROM fact_event_2022
  UNION ALL SELECT COUNT(*) FROM fact_event_2023
  UNION ALL SELECT COUNT(*) FROM fact_event_2024
  UNION ALL SELECT COUNT(*) FROM fact_event_2025
),
pass_totals AS (
  SELECT COUNT(*) AS count
  FROM fact_spadl_action
  WHERE lower(type_name) = 'pass'
),
shot_totals AS (
  SELECT COUNT(*) AS count
  FROM fact_spadl_action
  WHERE lower(type_name) IN ('shot', 'shot_freekick', 'shot_penalty')
)
SELECT
  (SELECT SUM(count)::bigint FROM event_totals) AS events,
  (SELECT count::bigint FROM pass_totals) AS passes,
  (SELECT count::bigint FROM shot_totals) AS shots,
  (SELECT COUNT(*) FROM dim_match) AS matches,
  (SELECT COUNT(*) FROM dim_player) AS players,
  (SELECT COUNT(DISTINCT season_year) FROM dim_season) AS seasons`

// rowQuerier is the slice of pgxpool.Pool the service needs
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service serves warehouse stats through an explicit TTL cache. The cache
// slot holds an immutable read replica; a mutex makes the refresh
// single-writer so a thundering herd does not fan out duplicate scans.
type Service struct {
	pool   rowQuerier
	closer func()
	ttl    time.Duration
	log    logging.Logger

	mu        sync.Mutex
	cached    *Stats
	fetchedAt time.Time
}

// NewService opens a small connection pool against the warehouse.
// sslOverride takes "false"/"disable"/"0" to force SSL off and any other
// non-empty value to force it on; otherwise the connection string's own
// sslmode (default: require) wins.
func NewService(ctx context.Context, rawURL, sslOverride string, ttl time.Duration) (*Service, error) {
	connString, err := sanitizeConnString(rawURL, sslOverride)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeNotConfigured, "warehouse is not configured", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeNotConfigured, "warehouse is not configured", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeUpstreamFailure, "failed to open warehouse pool", err)
	}

	return &Service{
		pool:   pool,
		closer: pool.Close,
		ttl:    ttl,
		log:    logging.New("warehouse"),
	}, nil
}

// newServiceWithQuerier exists for tests
func newServiceWithQuerier(q rowQuerier, ttl time.Duration) *Service {
	return &Service{
		pool: q,
		ttl:  ttl,
		log:  logging.New("warehouse"),
	}
}

// Stats returns the cached counts, refreshing once the TTL has lapsed.
// Staleness up to the TTL is fine; these numbers move slowly.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	var stats Stats
	row := s.pool.QueryRow(ctx, statsQuery)
	if err := row.Scan(&stats.Events, &stats.Passes, &stats.Shots,
		&stats.Matches, &stats.Players, &stats.Seasons); err != nil {
		s.log.Errorf("failed to load warehouse stats: %v", err)
		if s.cached != nil {
			// Keep serving the stale replica rather than erroring a dashboard
			return s.cached, nil
		}
		return nil, errors.WrapError(errors.ErrCodeUpstreamFailure, "failed to load warehouse stats", err)
	}

	s.cached = &stats
	s.fetchedAt = time.Now()
	return s.cached, nil
}

// Close releases the underlying pool
func (s *Service) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// sanitizeConnString strips any sslmode query param from the connection URL
// and re-applies one according to the override, defaulting to require
func sanitizeConnString(rawURL, sslOverride string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty connection string")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid connection string: %w", err)
	}

	query := parsed.Query()
	sslMode := query.Get("sslmode")

	useSSL := true
	if sslMode != "" {
		useSSL = sslMode != "disable"
	}
	switch sslOverride {
	case "":
	case "false", "disable", "0":
		useSSL = false
	default:
		useSSL = true
	}

	if useSSL {
		query.Set("sslmode", "require")
	} else {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
