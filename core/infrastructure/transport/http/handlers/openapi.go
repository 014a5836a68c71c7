package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pb33f/libopenapi"
)

// GenerateOpenAPISpec builds and validates the gateway's OpenAPI 3.0
// document. The spec is assembled as a plain map and run through
// libopenapi so a malformed document fails loudly instead of shipping.
func GenerateOpenAPISpec(baseURL, version string) ([]byte, error) {
	resultSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"results": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
			"row_count":         map[string]any{"type": "integer"},
			"columns":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"execution_time_ms": map[string]any{"type": "number"},
		},
	}

	errorSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error": map[string]any{"type": "string"},
		},
	}

	jsonContent := func(schema map[string]any) map[string]any {
		return map[string]any{
			"application/json": map[string]any{"schema": schema},
		}
	}

	okResponse := func(description string, schema map[string]any) map[string]any {
		return map[string]any{
			"description": description,
			"content":     jsonContent(schema),
		}
	}

	errorResponses := func(codes ...string) map[string]any {
		out := map[string]any{}
		descriptions := map[string]string{
			"400": "Validation failure",
			"404": "Not found",
			"500": "Gateway error",
			"502": "Upstream failure",
		}
		for _, code := range codes {
			out[code] = okResponse(descriptions[code], errorSchema)
		}
		return out
	}

	merge := func(base map[string]any, extra map[string]any) map[string]any {
		out := map[string]any{"200": base["200"]}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	panelSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slug":        map[string]any{"type": "string"},
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"max_rows":    map[string]any{"type": "integer"},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tabs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"label":    map[string]any{"type": "string"},
						"sql":      map[string]any{"type": "string"},
						"position": map[string]any{"type": "integer"},
					},
				},
			},
		},
	}

	sqlRequestBody := map[string]any{
		"required": true,
		"content": jsonContent(map[string]any{
			"type":     "object",
			"required": []string{"sql"},
			"properties": map[string]any{
				"sql": map[string]any{"type": "string"},
			},
		}),
	}

	queryRequestBody := map[string]any{
		"required": true,
		"content": jsonContent(map[string]any{
			"type":     "object",
			"required": []string{"query"},
			"properties": map[string]any{
				"query":   map[string]any{"type": "string"},
				"options": map[string]any{"type": "object"},
				"context": map[string]any{"type": "object"},
			},
		}),
	}

	paths := map[string]any{
		"/proxy/sql": map[string]any{
			"post": map[string]any{
				"summary":     "Execute a read-only SQL statement",
				"operationId": "proxySQL",
				"requestBody": sqlRequestBody,
				"responses": merge(
					map[string]any{"200": okResponse("Query result", resultSchema)},
					errorResponses("400", "502"),
				),
			},
		},
		"/proxy/query": map[string]any{
			"post": map[string]any{
				"summary":     "Ask a natural-language question with passthrough options",
				"operationId": "proxyQuery",
				"requestBody": queryRequestBody,
				"responses": merge(
					map[string]any{"200": okResponse("Query result", resultSchema)},
					errorResponses("400", "502"),
				),
			},
		},
		"/panel/{slug}": map[string]any{
			"get": map[string]any{
				"summary":     "Resolve and execute a stored panel",
				"operationId": "getPanel",
				"parameters": []map[string]any{
					{"name": "slug", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
					{"name": "limit", "in": "query", "schema": map[string]any{"type": "integer", "minimum": 1}},
					{"name": "tab", "in": "query", "schema": map[string]any{"type": "string"}},
				},
				"responses": merge(
					map[string]any{"200": okResponse("Panel result", resultSchema)},
					errorResponses("400", "404", "502"),
				),
			},
		},
		"/admin/panels": map[string]any{
			"get": map[string]any{
				"summary":     "List panel definitions",
				"operationId": "listPanels",
				"responses": merge(
					map[string]any{"200": okResponse("Panel list", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"panels": map[string]any{"type": "array", "items": panelSchema},
						},
					})},
					errorResponses("502"),
				),
			},
			"post": map[string]any{
				"summary":     "Create a panel definition",
				"operationId": "createPanel",
				"requestBody": map[string]any{
					"required": true,
					"content":  jsonContent(panelSchema),
				},
				"responses": map[string]any{
					"201": okResponse("Created panel", panelSchema),
					"400": okResponse("Validation failure", errorSchema),
					"500": okResponse("Admin interface not configured", errorSchema),
				},
			},
		},
		"/admin/panels/{slug}": map[string]any{
			"get": map[string]any{
				"summary":     "Fetch a panel definition",
				"operationId": "getPanelDefinition",
				"parameters": []map[string]any{
					{"name": "slug", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
				},
				"responses": merge(
					map[string]any{"200": okResponse("Panel definition", panelSchema)},
					errorResponses("404", "502"),
				),
			},
			"put": map[string]any{
				"summary":     "Replace a panel definition",
				"operationId": "updatePanel",
				"parameters": []map[string]any{
					{"name": "slug", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
				},
				"requestBody": map[string]any{
					"required": true,
					"content":  jsonContent(panelSchema),
				},
				"responses": merge(
					map[string]any{"200": okResponse("Saved panel", panelSchema)},
					errorResponses("400", "404"),
				),
			},
			"delete": map[string]any{
				"summary":     "Delete a panel definition",
				"operationId": "deletePanel",
				"parameters": []map[string]any{
					{"name": "slug", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
				},
				"responses": merge(
					map[string]any{"200": okResponse("Deletion confirmation", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"deleted": map[string]any{"type": "boolean"},
						},
					})},
					errorResponses("400", "404"),
				),
			},
		},
		"/dashboard/{section}": map[string]any{
			"get": map[string]any{
				"summary":     "Proxy a dashboard aggregate view",
				"operationId": "getDashboardSection",
				"parameters": []map[string]any{
					{"name": "section", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
					{"name": "season", "in": "query", "schema": map[string]any{"type": "integer"}},
				},
				"responses": merge(
					map[string]any{"200": okResponse("Aggregate payload", map[string]any{"type": "object"})},
					errorResponses("404", "502"),
				),
			},
		},
		"/stats": map[string]any{
			"get": map[string]any{
				"summary":     "Headline record counts",
				"operationId": "getStats",
				"responses": merge(
					map[string]any{"200": okResponse("Record counts", map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "integer"},
					})},
					errorResponses("502"),
				),
			},
		},
		"/viz/shot-map": map[string]any{
			"get": map[string]any{
				"summary":     "Render a shot map for a team",
				"operationId": "getShotMap",
				"parameters": []map[string]any{
					{"name": "team", "in": "query", "required": true, "schema": map[string]any{"type": "string"}},
					{"name": "season", "in": "query", "schema": map[string]any{"type": "integer"}},
					{"name": "forceRefresh", "in": "query", "schema": map[string]any{"type": "boolean"}},
				},
				"responses": merge(
					map[string]any{"200": okResponse("Shot map envelope", map[string]any{"type": "object"})},
					errorResponses("400", "500", "502"),
				),
			},
		},
		"/healthz": map[string]any{
			"get": map[string]any{
				"summary":     "Gateway liveness",
				"operationId": "healthz",
				"responses": map[string]any{
					"200": okResponse("Liveness payload", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"status":  map[string]any{"type": "string"},
							"version": map[string]any{"type": "string"},
						},
					}),
				},
			},
		},
	}

	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "NWSL Gateway API",
			"version":     version,
			"description": "Validating proxy for soccer analytics panels, SQL, and dashboard aggregates.",
		},
		"servers": []map[string]any{
			{"url": baseURL, "description": "NWSL Gateway"},
		},
		"paths": paths,
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	document, err := libopenapi.NewDocument(specJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create libopenapi document: %w", err)
	}
	if _, err := document.BuildV3Model(); err != nil {
		return nil, fmt.Errorf("failed to build v3 model: %w", err)
	}

	return specJSON, nil
}

// OpenAPISpecHandler returns the HTTP handler for GET /docs
func OpenAPISpecHandler(baseURL, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specJSON, err := GenerateOpenAPISpec(baseURL, version)
		if err != nil {
			http.Error(w, "Failed to generate OpenAPI spec", http.StatusInternalServerError)
			return
		}

		var spec map[string]any
		if err := json.Unmarshal(specJSON, &spec); err != nil {
			http.Error(w, "Failed to format spec", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
		}
	}
}
