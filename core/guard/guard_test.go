package guard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/guard"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		expected     string
		expectedCode errors.ErrorCode
	}{
		{
			name:     "simple select",
			raw:      "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "lowercase select with leading whitespace",
			raw:      "  select 1",
			expected: "select 1",
		},
		{
			name:     "mixed case preserved",
			raw:      "Select player_name FROM players",
			expected: "Select player_name FROM players",
		},
		{
			name:     "with clause",
			raw:      "WITH x AS (SELECT 1) SELECT * FROM x",
			expected: "WITH x AS (SELECT 1) SELECT * FROM x",
		},
		{
			name:     "lowercase with",
			raw:      "with totals as (select count(*) c from matches) select * from totals",
			expected: "with totals as (select count(*) c from matches) select * from totals",
		},
		{
			name:     "trailing semicolon allowed",
			raw:      "SELECT 1;",
			expected: "SELECT 1;",
		},
		{
			name:     "trailing semicolon with whitespace",
			raw:      "SELECT 1;   \n",
			expected: "SELECT 1;",
		},
		{
			name:     "semicolon inside string literal",
			raw:      "SELECT * FROM teams WHERE name = 'a;b'",
			expected: "SELECT * FROM teams WHERE name = 'a;b'",
		},
		{
			name:     "escaped quote then semicolon in literal",
			raw:      "SELECT * FROM teams WHERE name = 'o''brien; fc'",
			expected: "SELECT * FROM teams WHERE name = 'o''brien; fc'",
		},
		{
			name:         "empty string",
			raw:          "",
			expectedCode: errors.ErrCodeEmptyStatement,
		},
		{
			name:         "whitespace only",
			raw:          "   \n\t  ",
			expectedCode: errors.ErrCodeEmptyStatement,
		},
		{
			name:         "delete statement",
			raw:          "DELETE FROM matches",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "insert statement",
			raw:          "INSERT INTO matches VALUES (1)",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "update statement",
			raw:          "update players set goals = 0",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "drop statement",
			raw:          "DROP TABLE matches",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "statement chaining",
			raw:          "SELECT 1; DROP TABLE matches",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "chaining with second select",
			raw:          "SELECT 1; SELECT 2",
			expectedCode: errors.ErrCodeForbiddenStatement,
		},
		{
			name:         "too long",
			raw:          strings.Repeat("x", guard.MaxStatementLength+1),
			expectedCode: errors.ErrCodeStatementTooLong,
		},
		{
			name:     "exactly at the length cap",
			raw:      "SELECT '" + strings.Repeat("x", guard.MaxStatementLength-9) + "'",
			expected: "SELECT '" + strings.Repeat("x", guard.MaxStatementLength-9) + "'",
		},
		{
			// The cap counts characters, not bytes: ü is two bytes
			name:     "multi-byte statement at the length cap",
			raw:      "SELECT '" + strings.Repeat("ü", guard.MaxStatementLength-9) + "'",
			expected: "SELECT '" + strings.Repeat("ü", guard.MaxStatementLength-9) + "'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Validate(tt.raw)

			if tt.expectedCode != "" {
				require.Error(t, err)
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.expectedCode, appErr.Code)
				assert.True(t, errors.IsValidationError(err))
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateLengthCheckedBeforePrefix(t *testing.T) {
	// An over-long mutating statement reports TOO_LONG, matching the
	// documented rejection order.
	raw := "DELETE FROM matches WHERE " + strings.Repeat("x", guard.MaxStatementLength)
	_, err := guard.Validate(raw)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeStatementTooLong, appErr.Code)
}
