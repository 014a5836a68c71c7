package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nwslgate/nwslgate/core/domain"
)

// ExecuteSQL runs an already-validated statement via the backend /sql
// endpoint. The statement is forwarded verbatim; the guard has run by the
// time this is called.
func (c *Client) ExecuteSQL(ctx context.Context, statement string) (*domain.QueryResult, error) {
	var result domain.QueryResult
	payload := map[string]string{"sql": statement}
	if err := c.do(ctx, http.MethodPost, "/sql", nil, payload, false, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []map[string]any{}
	}
	return &result, nil
}

// ExecuteQuery forwards a natural-language query to the backend /query
// endpoint. Options and context ride along unmodified.
func (c *Client) ExecuteQuery(ctx context.Context, query string, extras domain.QueryExtras) (*domain.QueryResult, error) {
	payload := map[string]any{"query": query}
	if extras.Options != nil {
		payload["options"] = extras.Options
	}
	if extras.Context != nil {
		payload["context"] = extras.Context
	}

	var result domain.QueryResult
	if err := c.do(ctx, http.MethodPost, "/query", nil, payload, false, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []map[string]any{}
	}
	return &result, nil
}

// Health fetches the backend health payload unmodified
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, false, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// DashboardSection fetches one of the backend's read-only aggregate views
// (summary, team-overview, player-valuation, goalkeepers, momentum,
// player-style, lookups) with its filter params passed through.
func (c *Client) DashboardSection(ctx context.Context, section string, params url.Values) (json.RawMessage, error) {
	var payload json.RawMessage
	path := "/dashboard/" + strings.Trim(section, "/")
	if err := c.do(ctx, http.MethodGet, path, params, nil, false, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
