package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/handlers"
)

func TestGenerateOpenAPISpecValidates(t *testing.T) {
	specJSON, err := handlers.GenerateOpenAPISpec("http://localhost:3000", "1.2.3")
	require.NoError(t, err)

	var spec map[string]any
	require.NoError(t, json.Unmarshal(specJSON, &spec))
	assert.Equal(t, "3.0.0", spec["openapi"])

	paths, ok := spec["paths"].(map[string]any)
	require.True(t, ok)
	for _, path := range []string{"/proxy/sql", "/proxy/query", "/panel/{slug}", "/admin/panels", "/dashboard/{section}", "/healthz"} {
		assert.Contains(t, paths, path)
	}
}

func TestOpenAPISpecHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec := httptest.NewRecorder()
	handlers.OpenAPISpecHandler("http://localhost:3000", "1.2.3")(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))

	info, ok := spec["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", info["version"])
}

func TestHealthzHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handlers.HealthzHandler("1.2.3")(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])
}
