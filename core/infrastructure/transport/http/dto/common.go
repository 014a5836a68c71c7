package dto

// ErrorResponse is the uniform error envelope for every route
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries field-level detail for rejected payloads
type ValidationErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// HealthzResponse reports gateway liveness
type HealthzResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
