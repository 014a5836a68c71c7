// Package viz talks to the external visualization service that renders
// shot-map images. The gateway normalizes its mixed legacy/new response
// shape into a single envelope.
package viz

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// ShotMapRequest identifies the team/season to render
type ShotMapRequest struct {
	TeamName     string
	Season       *int
	ForceRefresh bool
}

// ShotMapEnvelope is the normalized response returned to clients
type ShotMapEnvelope struct {
	ImageURL string         `json:"imageUrl"`
	Summary  string         `json:"summary"`
	Meta     map[string]any `json:"meta,omitempty"`
	Metrics  map[string]any `json:"metrics,omitempty"`
}

// serviceResponse mirrors the visualization service's wire shape, which
// carries both the new render block and the legacy image_url
type serviceResponse struct {
	Render *struct {
		URL string `json:"url"`
	} `json:"render"`
	Legacy *struct {
		ImageURL string `json:"image_url"`
	} `json:"legacy"`
	Summary string          `json:"summary"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

// Client calls the visualization service
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logging.Logger
}

// NewClient creates a visualization client. The token is optional; when
// set it rides as a bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logging.New("viz"),
	}
}

// WithHTTPClient overrides the underlying HTTP client (used in tests)
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// GenerateShotMap renders a shot map for a team and normalizes the result
func (c *Client) GenerateShotMap(ctx context.Context, req ShotMapRequest) (*ShotMapEnvelope, error) {
	payload := map[string]any{
		"team_name":     req.TeamName,
		"force_refresh": req.ForceRefresh,
	}
	if req.Season != nil {
		payload["season"] = *req.Season
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeInternalError, "failed to encode shot map request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/generate_shot_map", bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeInternalError, "failed to build shot map request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Errorf("shot map request failed: %v", err)
		return nil, errors.WrapError(errors.ErrCodeUpstreamFailure, "visualization service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Errorf("shot map request returned %d", resp.StatusCode)
		return nil, errors.NewAppError(errors.ErrCodeUpstreamFailure, "failed to generate shot map", nil)
	}

	var svcResp serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&svcResp); err != nil {
		return nil, errors.WrapError(errors.ErrCodeUpstreamFailure, "visualization service returned a malformed response", err)
	}

	imageURL := ""
	if svcResp.Render != nil {
		imageURL = svcResp.Render.URL
	}
	if imageURL == "" && svcResp.Legacy != nil {
		imageURL = svcResp.Legacy.ImageURL
	}
	if imageURL == "" {
		return nil, errors.NewAppError(errors.ErrCodeUpstreamFailure, "shot map response missing image URL", nil)
	}

	return &ShotMapEnvelope{
		ImageURL: imageURL,
		Summary:  svcResp.Summary,
		Meta:     svcResp.Meta,
		Metrics:  extractMetrics(svcResp.Data),
	}, nil
}

// extractMetrics pulls the metrics block out of the service's data field.
// Older service versions inline the metrics directly into data.
func extractMetrics(data json.RawMessage) map[string]any {
	if len(data) == 0 {
		return nil
	}

	var wrapped struct {
		Metrics map[string]any `json:"metrics"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Metrics != nil {
		return wrapped.Metrics
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err == nil {
		return flat
	}
	return nil
}
