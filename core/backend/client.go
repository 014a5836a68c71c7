// Package backend implements the HTTP client for the external analytics
// service. It is the single place that knows the upstream wire contract:
// /sql and /query execution, /health, the /dashboard aggregate views, and
// the /admin/panels definition store.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	sharedcontext "github.com/nwslgate/nwslgate/core/shared/context"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// maxErrorBodyBytes bounds how much upstream error text is kept for logs
// and the best-effort client message
const maxErrorBodyBytes = 512

// upstreamStatusError preserves the backend's HTTP status behind the
// normalized UPSTREAM_FAILURE so callers that assign meaning to a specific
// status (the panel store's 404) can recover it.
type upstreamStatusError struct {
	status int
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.status)
}

func isUpstreamStatus(err error, status int) bool {
	var se *upstreamStatusError
	return stderrors.As(err, &se) && se.status == status
}

// Client talks to the analytics backend. All requests carry the X-API-Key
// header; admin mutations additionally carry the bearer admin token.
type Client struct {
	baseURL    string
	apiKey     string
	adminToken string
	httpClient *http.Client
	log        logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAdminToken sets the bearer token forwarded on panel mutations
func WithAdminToken(token string) Option {
	return func(c *Client) {
		c.adminToken = token
	}
}

// NewClient creates a backend client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logging.New("backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request and decodes the JSON response into out. Non-2xx
// responses are normalized into UPSTREAM_FAILURE with the full upstream
// detail logged and only a truncated best-effort message kept.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, admin bool, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WrapError(errors.ErrCodeInternalError, "failed to encode request body", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return errors.WrapError(errors.ErrCodeInternalError, "failed to build backend request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	if requestID := sharedcontext.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if admin && c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorf("backend %s %s failed: %v", method, path, err)
		return errors.WrapError(errors.ErrCodeUpstreamFailure, "analytics backend is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := extractErrorDetail(resp)
		c.log.Errorf("backend %s %s returned %d: %s", method, path, resp.StatusCode, detail)
		message := fmt.Sprintf("analytics backend returned %d", resp.StatusCode)
		if detail != "" {
			message = detail
		}
		return errors.NewAppError(errors.ErrCodeUpstreamFailure, message,
			&upstreamStatusError{status: resp.StatusCode})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Errorf("backend %s %s returned malformed JSON: %v", method, path, err)
		return errors.WrapError(errors.ErrCodeUpstreamFailure, "analytics backend returned a malformed response", err)
	}
	return nil
}

// extractErrorDetail pulls a human-readable message out of an upstream
// error response. JSON bodies with an "error" field win; otherwise the raw
// text is kept, truncated, only when it is printable.
func extractErrorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}

	text := strings.TrimSpace(string(raw))
	for _, r := range text {
		if r < ' ' && r != '\n' && r != '\t' {
			return ""
		}
	}
	return text
}
