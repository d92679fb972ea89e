package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeStatementsCreateTableIsNonTransactional(t *testing.T) {
	a := NewStatementAnalyzer()
	result := a.AnalyzeStatements([]string{"CREATE TABLE users (id BIGINT PRIMARY KEY)"}, false)
	assert.False(t, result.IsTransactional)
	assert.NotEmpty(t, result.NonTxReasons)
	assert.False(t, HasDestructiveOperations(result))
}

func TestAnalyzeStatementsDropTableIsDestructive(t *testing.T) {
	a := NewStatementAnalyzer()
	result := a.AnalyzeStatements([]string{"DROP TABLE users"}, false)
	assert.True(t, HasDestructiveOperations(result))
	assert.False(t, result.IsTransactional)

	var found bool
	for _, w := range result.Warnings {
		if w.Level == WarnDanger {
			found = true
			assert.Contains(t, w.Message, "--unsafe")
		}
	}
	assert.True(t, found)
}

func TestAnalyzeStatementsUnsafeSuppressesRequiresUnsafeTag(t *testing.T) {
	a := NewStatementAnalyzer()
	result := a.AnalyzeStatements([]string{"DROP TABLE users"}, true)
	require := assert.New(t)
	require.True(HasDestructiveOperations(result))
	for _, w := range result.Warnings {
		if w.Level == WarnDanger {
			require.NotContains(w.Message, "--unsafe")
		}
	}
}

func TestAnalyzeStatementsEmptyIsClean(t *testing.T) {
	a := NewStatementAnalyzer()
	result := a.AnalyzeStatements(nil, false)
	assert.True(t, result.IsTransactional)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
}

func TestAnalyzeStatementsUnparseableFallsBackToPatternMatching(t *testing.T) {
	a := NewStatementAnalyzer()
	result := a.AnalyzeStatements([]string{"CREATE TABLE ((( not real sql"}, false)
	assert.False(t, result.IsTransactional)
}
