package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/resolver"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]domain.PanelDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PanelDefinition), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, slug string) (*domain.PanelDefinition, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PanelDefinition), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error) {
	args := m.Called(ctx, panel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PanelDefinition), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error) {
	args := m.Called(ctx, panel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PanelDefinition), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) ExecuteSQL(ctx context.Context, statement string) (*domain.QueryResult, error) {
	args := m.Called(ctx, statement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueryResult), args.Error(1)
}

func standingsPanel() *domain.PanelDefinition {
	return &domain.PanelDefinition{
		Slug:    "league-standings",
		Title:   "League Standings",
		MaxRows: 3,
		Tags:    []string{"teams"},
		Tabs: []domain.PanelTab{
			{ID: "regular", Label: "Regular Season", SQL: "SELECT * FROM standings", Position: 0},
			{ID: "playoffs", Label: "Playoffs", SQL: "SELECT * FROM playoff_standings", Position: 1},
		},
	}
}

func rows(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"team": i, "pts": n - i}
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestResolvePrimaryTab(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
	exec.On("ExecuteSQL", mock.Anything, "SELECT * FROM standings").Return(&domain.QueryResult{
		Results:         rows(2),
		RowCount:        2,
		Columns:         []string{"team", "pts"},
		ExecutionTimeMS: 12.5,
	}, nil)

	r := resolver.New(store, exec)
	result, err := r.Resolve(context.Background(), "league-standings", resolver.Options{})
	require.NoError(t, err)

	assert.Equal(t, "league-standings", result.Panel.Slug)
	assert.Equal(t, "regular", result.Tab)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, []string{"team", "pts"}, result.Columns)
	assert.Equal(t, 12.5, result.ExecutionTimeMS)
	exec.AssertExpectations(t)
}

func TestResolveSelectedTab(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
	exec.On("ExecuteSQL", mock.Anything, "SELECT * FROM playoff_standings").Return(&domain.QueryResult{
		Results: rows(1), RowCount: 1,
	}, nil)

	r := resolver.New(store, exec)
	result, err := r.Resolve(context.Background(), "league-standings", resolver.Options{TabID: "playoffs"})
	require.NoError(t, err)
	assert.Equal(t, "playoffs", result.Tab)
}

func TestResolveUnknownTab(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)

	r := resolver.New(store, exec)
	_, err := r.Resolve(context.Background(), "league-standings", resolver.Options{TabID: "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	exec.AssertNotCalled(t, "ExecuteSQL", mock.Anything, mock.Anything)
}

func TestResolveLimitClamping(t *testing.T) {
	tests := []struct {
		name         string
		override     *int
		backendRows  int
		expectedRows int
	}{
		{name: "no override caps at max_rows", override: nil, backendRows: 10, expectedRows: 3},
		{name: "override below max_rows wins", override: intPtr(2), backendRows: 10, expectedRows: 2},
		{name: "override above max_rows loses", override: intPtr(50), backendRows: 10, expectedRows: 3},
		{name: "fewer rows than limit untouched", override: intPtr(2), backendRows: 1, expectedRows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			exec := new(mockExecutor)
			store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
			exec.On("ExecuteSQL", mock.Anything, mock.Anything).Return(&domain.QueryResult{
				Results:  rows(tt.backendRows),
				RowCount: tt.backendRows,
			}, nil)

			r := resolver.New(store, exec)
			result, err := r.Resolve(context.Background(), "league-standings",
				resolver.Options{LimitOverride: tt.override})
			require.NoError(t, err)

			assert.Equal(t, tt.expectedRows, result.RowCount)
			assert.Len(t, result.Results, tt.expectedRows)
		})
	}
}

func TestResolveInvalidLimitFailsBeforeBackend(t *testing.T) {
	for _, limit := range []int{0, -5} {
		store := new(mockStore)
		exec := new(mockExecutor)

		r := resolver.New(store, exec)
		_, err := r.Resolve(context.Background(), "league-standings",
			resolver.Options{LimitOverride: intPtr(limit)})

		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrCodeInvalidLimit, appErr.Code)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		exec.AssertNotCalled(t, "ExecuteSQL", mock.Anything, mock.Anything)
	}
}

func TestResolveUnknownSlug(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "missing").Return(nil,
		errors.NewAppError(errors.ErrCodePanelNotFound, "panel 'missing' not found", nil))

	r := resolver.New(store, exec)
	_, err := r.Resolve(context.Background(), "missing", resolver.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestResolveUpstreamFailure(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
	exec.On("ExecuteSQL", mock.Anything, mock.Anything).Return(nil,
		errors.NewAppError(errors.ErrCodeUpstreamFailure, "analytics backend returned 500", nil))

	r := resolver.New(store, exec)
	_, err := r.Resolve(context.Background(), "league-standings", resolver.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
}

func TestResolveIdempotent(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
	exec.On("ExecuteSQL", mock.Anything, mock.Anything).Return(&domain.QueryResult{
		Results: rows(2), RowCount: 2,
	}, nil)

	r := resolver.New(store, exec)
	first, err := r.Resolve(context.Background(), "league-standings", resolver.Options{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "league-standings", resolver.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.RowCount, second.RowCount)
}

func TestResolveDerivesColumnsWhenBackendOmitsThem(t *testing.T) {
	store := new(mockStore)
	exec := new(mockExecutor)
	store.On("Get", mock.Anything, "league-standings").Return(standingsPanel(), nil)
	exec.On("ExecuteSQL", mock.Anything, mock.Anything).Return(&domain.QueryResult{
		Results:  []map[string]any{{"pts": 10, "team": "Current"}},
		RowCount: 1,
	}, nil)

	r := resolver.New(store, exec)
	result, err := r.Resolve(context.Background(), "league-standings", resolver.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"pts", "team"}, result.Columns)
}
