package interfaces

import (
	"context"

	"github.com/nwslgate/nwslgate/core/domain"
)

// SQLExecutor defines the interface for executing already-validated SQL
// against the analytics backend
type SQLExecutor interface {
	// ExecuteSQL runs a read-only statement and returns the tabular result
	ExecuteSQL(ctx context.Context, statement string) (*domain.QueryResult, error)
}

// QueryExecutor defines the interface for natural-language query dispatch
type QueryExecutor interface {
	// ExecuteQuery forwards a free-text query with opaque passthrough extras
	ExecuteQuery(ctx context.Context, query string, extras domain.QueryExtras) (*domain.QueryResult, error)
}
