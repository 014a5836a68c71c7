package viz_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/shared/errors"
	"github.com/nwslgate/nwslgate/core/viz"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *viz.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return viz.NewClient(server.URL, "viz-token").WithHTTPClient(server.Client())
}

func TestGenerateShotMap(t *testing.T) {
	var gotPayload map[string]any
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate_shot_map", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{
			"render": {"url": "https://cdn.example.com/map.png"},
			"summary": "23 shots, 4 goals",
			"data": {"metrics": {"total_shots": 23, "goals": 4}},
			"meta": {"season": 2024}
		}`))
	})

	season := 2024
	envelope, err := client.GenerateShotMap(context.Background(), viz.ShotMapRequest{
		TeamName: "Portland Thorns",
		Season:   &season,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer viz-token", gotAuth)
	assert.Equal(t, "Portland Thorns", gotPayload["team_name"])
	assert.Equal(t, float64(2024), gotPayload["season"])
	assert.Equal(t, false, gotPayload["force_refresh"])

	assert.Equal(t, "https://cdn.example.com/map.png", envelope.ImageURL)
	assert.Equal(t, "23 shots, 4 goals", envelope.Summary)
	assert.Equal(t, float64(23), envelope.Metrics["total_shots"])
	assert.Equal(t, float64(2024), envelope.Meta["season"])
}

func TestGenerateShotMapLegacyImageURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"legacy": {"image_url": "https://cdn.example.com/legacy.png"},
			"data": {"total_shots": 10}
		}`))
	})

	envelope, err := client.GenerateShotMap(context.Background(), viz.ShotMapRequest{TeamName: "x"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/legacy.png", envelope.ImageURL)
	// Flat metrics shape from older service versions
	assert.Equal(t, float64(10), envelope.Metrics["total_shots"])
}

func TestGenerateShotMapMissingImageURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary": "no image"}`))
	})

	_, err := client.GenerateShotMap(context.Background(), viz.ShotMapRequest{TeamName: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
}

func TestGenerateShotMapUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GenerateShotMap(context.Background(), viz.ShotMapRequest{TeamName: "x"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeUpstreamFailure, appErr.Code)
}
