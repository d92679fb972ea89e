package export

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// PreflightResult collects warnings, hard errors, and transactionality
// info gathered while analyzing a migration's statements.
type PreflightResult struct {
	Warnings        []Warning
	Errors          []string
	IsTransactional bool
	NonTxReasons    []string
}

// Warning carries a severity level, a human message, and the SQL it
// was raised against.
type Warning struct {
	Level   WarningLevel
	Message string
	SQL     string
}

// WarningLevel distinguishes a caution from an outright danger.
type WarningLevel string

const (
	WarnCaution WarningLevel = "CAUTION"
	WarnDanger  WarningLevel = "DANGER"
)

// statementAnalysis is the per-statement verdict the analyzer produces
// before it gets folded into a PreflightResult.
type statementAnalysis struct {
	IsBlocking        bool
	BlockingReasons   []string
	IsDestructive     bool
	DestructiveReason string
	IsTransactionSafe bool
	TxUnsafeReason    string
	StatementType     string
}

// StatementAnalyzer classifies generated DDL/DML using the real MySQL
// grammar rather than string matching, so CREATE TABLE's implicit
// commit and DROP TABLE's destructiveness are caught precisely.
type StatementAnalyzer struct {
	parser *parser.Parser
}

// NewStatementAnalyzer builds an analyzer ready to parse statements.
func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{parser: parser.New()}
}

// AnalyzeStatements runs every statement through the analyzer and
// folds the results into one PreflightResult.
func (a *StatementAnalyzer) AnalyzeStatements(statements []string, unsafeAllowed bool) *PreflightResult {
	result := &PreflightResult{IsTransactional: true}

	for _, stmt := range statements {
		analysis := a.analyzeStatement(stmt)
		if analysis == nil {
			continue
		}

		if analysis.IsBlocking {
			for _, reason := range analysis.BlockingReasons {
				result.Warnings = append(result.Warnings, Warning{
					Level:   WarnCaution,
					Message: fmt.Sprintf("potentially blocking DDL: %s", reason),
					SQL:     truncateSQL(stmt, 60),
				})
			}
		}

		if analysis.IsDestructive {
			msg := analysis.DestructiveReason
			if !unsafeAllowed {
				msg = fmt.Sprintf("%s (requires --unsafe flag)", msg)
			}
			result.Warnings = append(result.Warnings, Warning{
				Level:   WarnDanger,
				Message: msg,
				SQL:     truncateSQL(stmt, 60),
			})
		}

		if !analysis.IsTransactionSafe {
			result.IsTransactional = false
			reason := analysis.TxUnsafeReason
			if reason == "" {
				reason = "DDL statement causes implicit commit"
			}
			result.NonTxReasons = append(result.NonTxReasons, fmt.Sprintf("%s: %s", reason, truncateSQL(stmt, 60)))
		}
	}

	return result
}

func (a *StatementAnalyzer) analyzeStatement(sql string) *statementAnalysis {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil || len(stmtNodes) == 0 {
		return a.fallbackAnalysis(sql)
	}
	return a.analyzeNode(stmtNodes[0])
}

func (a *StatementAnalyzer) analyzeNode(node ast.StmtNode) *statementAnalysis {
	analysis := &statementAnalysis{IsTransactionSafe: true}

	switch node.(type) {
	case *ast.CreateTableStmt:
		analysis.StatementType = "CREATE TABLE"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "CREATE TABLE causes an implicit commit in MySQL"

	case *ast.DropTableStmt:
		analysis.StatementType = "DROP TABLE"
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP TABLE will permanently delete the table and all its data"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DROP TABLE causes an implicit commit in MySQL"

	default:
		analysis.StatementType = "OTHER"
	}

	return analysis
}

func (a *StatementAnalyzer) fallbackAnalysis(sql string) *statementAnalysis {
	analysis := &statementAnalysis{StatementType: "UNPARSEABLE", IsTransactionSafe: true}
	upper := strings.ToUpper(strings.TrimSpace(sql))

	if strings.HasPrefix(upper, "DROP TABLE") {
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP TABLE will permanently delete the table and all its data"
	}
	if strings.HasPrefix(upper, "CREATE TABLE") || strings.HasPrefix(upper, "DROP TABLE") {
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DDL statement causes implicit commit"
	}

	return analysis
}

func truncateSQL(stmt string, maxLen int) string {
	stmt = strings.TrimSpace(stmt)
	if maxLen <= 0 {
		maxLen = 60
	}
	if len(stmt) > maxLen {
		return stmt[:maxLen-3] + "..."
	}
	return stmt
}

// HasDestructiveOperations reports whether preflight found any
// WarnDanger-level warning.
func HasDestructiveOperations(preflight *PreflightResult) bool {
	for _, w := range preflight.Warnings {
		if w.Level == WarnDanger {
			return true
		}
	}
	return false
}
