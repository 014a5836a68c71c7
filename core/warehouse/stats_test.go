package warehouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []int64
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*int64)) = r.values[i]
	}
	return nil
}

type fakeQuerier struct {
	row   fakeRow
	calls int
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	return q.row
}

func TestStatsScansAllCounts(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []int64{6000000, 1200000, 90000, 1500, 2400, 13}}}
	svc := newServiceWithQuerier(q, time.Minute)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6000000), stats.Events)
	assert.Equal(t, int64(1200000), stats.Passes)
	assert.Equal(t, int64(90000), stats.Shots)
	assert.Equal(t, int64(1500), stats.Matches)
	assert.Equal(t, int64(2400), stats.Players)
	assert.Equal(t, int64(13), stats.Seasons)
}

func TestStatsCachedWithinTTL(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []int64{1, 2, 3, 4, 5, 6}}}
	svc := newServiceWithQuerier(q, time.Minute)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, q.calls)
}

func TestStatsRefreshAfterTTL(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []int64{1, 2, 3, 4, 5, 6}}}
	svc := newServiceWithQuerier(q, time.Millisecond)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, q.calls)
}

func TestStatsServesStaleOnRefreshFailure(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []int64{1, 2, 3, 4, 5, 6}}}
	svc := newServiceWithQuerier(q, time.Millisecond)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	q.row = fakeRow{err: fmt.Errorf("connection reset")}

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatsErrorsWithoutCachedValue(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: fmt.Errorf("connection refused")}}
	svc := newServiceWithQuerier(q, time.Minute)

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestSanitizeConnString(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		override string
		want     string
		wantErr  bool
	}{
		{
			name:   "defaults to require",
			rawURL: "postgres://user:pw@host:5432/nwsl",
			want:   "postgres://user:pw@host:5432/nwsl?sslmode=require",
		},
		{
			name:   "sslmode disable in url respected",
			rawURL: "postgres://host/nwsl?sslmode=disable",
			want:   "postgres://host/nwsl?sslmode=disable",
		},
		{
			name:     "override forces ssl off",
			rawURL:   "postgres://host/nwsl?sslmode=verify-full",
			override: "false",
			want:     "postgres://host/nwsl?sslmode=disable",
		},
		{
			name:     "override forces ssl on",
			rawURL:   "postgres://host/nwsl?sslmode=disable",
			override: "true",
			want:     "postgres://host/nwsl?sslmode=require",
		},
		{
			name:    "empty url rejected",
			rawURL:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeConnString(tt.rawURL, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
