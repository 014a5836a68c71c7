// Package guard validates inbound SQL against the gateway's read-only
// policy before it is forwarded to the analytics backend. This is a
// prefix-based allowlist plus a statement-separator check, not a SQL
// parser: a statement that smuggles mutating sub-clauses behind a
// valid-looking SELECT still passes, and the backend's read-only
// transaction is the real enforcement line.
package guard

import (
	"strings"
	"unicode/utf8"

	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// MaxStatementLength caps inbound SQL at 50,000 characters
const MaxStatementLength = 50000

// Validate checks raw SQL against the read-only policy and returns the
// trimmed statement, original case preserved, ready to forward verbatim.
//
// Rejections, in order:
//   - EMPTY_STATEMENT when raw trims to nothing
//   - TOO_LONG when raw exceeds MaxStatementLength
//   - FORBIDDEN_STATEMENT_TYPE when the statement does not begin with
//     SELECT or WITH (case-insensitive), or chains a second statement
//     after a semicolon
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.NewAppError(errors.ErrCodeEmptyStatement,
			"SQL statement is required", nil)
	}

	if utf8.RuneCountInString(raw) > MaxStatementLength {
		return "", errors.NewAppError(errors.ErrCodeStatementTooLong,
			"SQL statement exceeds 50,000 character limit", nil)
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return "", errors.NewAppError(errors.ErrCodeForbiddenStatement,
			"Only SELECT and WITH statements are permitted", nil)
	}

	if containsStatementChain(trimmed) {
		return "", errors.NewAppError(errors.ErrCodeForbiddenStatement,
			"Multiple SQL statements are not permitted", nil)
	}

	return trimmed, nil
}

// containsStatementChain reports whether anything other than whitespace
// follows a top-level semicolon. A single trailing semicolon is fine;
// "SELECT 1; DROP TABLE x" is not. Semicolons inside quoted literals are
// skipped so legitimate string contents do not trip the check.
func containsStatementChain(statement string) bool {
	var inSingle, inDouble bool
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		switch {
		case inSingle:
			if c == '\'' {
				// '' escapes a quote inside a single-quoted literal
				if i+1 < len(statement) && statement[i+1] == '\'' {
					i++
					continue
				}
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == ';':
			if strings.TrimSpace(statement[i+1:]) != "" {
				return true
			}
		}
	}
	return false
}
