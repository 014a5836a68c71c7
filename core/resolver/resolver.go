// Package resolver turns a panel slug into an executed query result. It
// fetches the stored definition, picks the requested tab, executes its SQL
// against the backend, and clamps rows to the panel's budget.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/domain/interfaces"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// Resolver resolves panel slugs into executed tabular results
type Resolver struct {
	store    interfaces.PanelStore
	executor interfaces.SQLExecutor
	log      logging.Logger
}

// Options tune a single resolution. LimitOverride nil means "use the
// panel's max_rows"; a present non-positive value is rejected before any
// backend call. TabID empty means the primary tab.
type Options struct {
	LimitOverride *int
	TabID         string
}

// New creates a resolver over the given store and executor
func New(store interfaces.PanelStore, executor interfaces.SQLExecutor) *Resolver {
	return &Resolver{
		store:    store,
		executor: executor,
		log:      logging.New("resolver"),
	}
}

// Resolve executes a panel's SQL and merges the definition metadata into
// the response envelope. Panel queries are read-only and idempotent, so a
// failed call is terminal for this request; the caller retries if it wants.
func (r *Resolver) Resolve(ctx context.Context, slug string, opts Options) (*domain.PanelResult, error) {
	if opts.LimitOverride != nil && *opts.LimitOverride <= 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidLimit,
			"limit must be a positive integer", nil)
	}

	panel, err := r.store.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	tab := panel.PrimaryTab()
	if opts.TabID != "" {
		if tab = panel.TabByID(opts.TabID); tab == nil {
			return nil, errors.NewAppError(errors.ErrCodeNotFound,
				fmt.Sprintf("panel '%s' has no tab '%s'", slug, opts.TabID), nil)
		}
	}
	if tab == nil {
		return nil, errors.NewAppError(errors.ErrCodeInternalError,
			fmt.Sprintf("panel '%s' has no tabs", slug), nil)
	}

	r.log.Debugf("resolving panel '%s' tab '%s'", slug, tab.ID)

	result, err := r.executor.ExecuteSQL(ctx, tab.SQL)
	if err != nil {
		return nil, err
	}

	limit := panel.MaxRows
	if opts.LimitOverride != nil && *opts.LimitOverride < limit {
		limit = *opts.LimitOverride
	}
	result.Truncate(limit)

	return &domain.PanelResult{
		Panel:           panel.Metadata(),
		Tab:             tab.ID,
		Results:         result.Results,
		RowCount:        result.RowCount,
		Columns:         resultColumns(result),
		ExecutionTimeMS: result.ExecutionTimeMS,
	}, nil
}

// resultColumns prefers the backend-reported column order and falls back
// to sorted first-row keys when the backend omitted it
func resultColumns(result *domain.QueryResult) []string {
	if len(result.Columns) > 0 {
		return result.Columns
	}
	if len(result.Results) == 0 {
		return []string{}
	}
	columns := make([]string, 0, len(result.Results[0]))
	for column := range result.Results[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
