package domain

// QueryResult is the tabular envelope produced by the analytics backend.
// The gateway passes it through rather than reinterpreting row values, so
// rows stay untyped maps.
type QueryResult struct {
	Results         []map[string]any `json:"results"`
	RowCount        int              `json:"row_count"`
	Columns         []string         `json:"columns,omitempty"`
	ExecutionTimeMS float64          `json:"execution_time_ms,omitempty"`
}

// Truncate caps the result at limit rows, updating RowCount to match.
// A non-positive limit leaves the result untouched.
func (r *QueryResult) Truncate(limit int) {
	if limit <= 0 || len(r.Results) <= limit {
		r.RowCount = len(r.Results)
		return
	}
	r.Results = r.Results[:limit]
	r.RowCount = limit
}

// QueryExtras carries the optional options/context objects accepted by the
// natural-language query endpoint. Both are opaque passthrough, not
// validated; the backend owns their interpretation.
type QueryExtras struct {
	Options map[string]any `json:"options,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// PanelResult merges panel metadata with the executed primary-tab result
type PanelResult struct {
	Panel           PanelMetadata    `json:"panel"`
	Tab             string           `json:"tab,omitempty"`
	Results         []map[string]any `json:"results"`
	RowCount        int              `json:"row_count"`
	Columns         []string         `json:"columns"`
	ExecutionTimeMS float64          `json:"execution_time_ms"`
}
