package dto

// SQLRequest is the body accepted by the raw SQL proxy
type SQLRequest struct {
	SQL string `json:"sql"`
}

// QueryRequest is the body accepted by the natural-language proxy.
// Options and Context pass through to the backend untouched.
type QueryRequest struct {
	Query   string         `json:"query"`
	Options map[string]any `json:"options,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}
