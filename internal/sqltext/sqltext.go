// Package sqltext translates SQL text into exec.Statement values using
// TiDB's MySQL-compatible parser for CREATE/INSERT/SELECT/UPDATE/
// DELETE/DROP/SHOW, plus a small line-prefix scanner for the
// transaction-control statements, which are not MySQL syntax.
package sqltext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	"github.com/pingcap/tidb/pkg/parser/opcode"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"reldb/internal/exec"
	"reldb/internal/schema"
	"reldb/internal/value"
)

// Parse converts one SQL or transaction-control statement into the
// matching exec.Statement variant.
func Parse(text string) (exec.Statement, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if stmt, ok, err := parseTransactionControl(trimmed); ok {
		return stmt, err
	}

	p := parser.New()
	nodes, _, err := p.Parse(text, "", "")
	if err != nil {
		return nil, fmt.Errorf("sql parse error: %w", err)
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("expected exactly one statement, got %d", len(nodes))
	}

	return convert(nodes[0])
}

func convert(node ast.StmtNode) (exec.Statement, error) {
	switch n := node.(type) {
	case *ast.CreateTableStmt:
		return convertCreateTable(n)
	case *ast.InsertStmt:
		return convertInsert(n)
	case *ast.SelectStmt:
		return convertSelect(n)
	case *ast.UpdateStmt:
		return convertUpdate(n)
	case *ast.DeleteStmt:
		return convertDelete(n)
	case *ast.DropTableStmt:
		return convertDropTable(n)
	case *ast.ShowStmt:
		return convertShow(n)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", node)
	}
}

// parseTransactionControl recognizes the three non-SQL statement
// shapes: "BEGIN TRANSACTION", "COMMIT TRANSACTION <id>", and
// "ABORT TRANSACTION <id>". ok is false when text is none of these,
// signalling the caller to fall through to the SQL parser.
func parseTransactionControl(text string) (exec.Statement, bool, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || !strings.EqualFold(fields[1], "TRANSACTION") {
		return nil, false, nil
	}

	switch strings.ToUpper(fields[0]) {
	case "BEGIN":
		if len(fields) != 2 {
			return nil, true, fmt.Errorf("BEGIN TRANSACTION takes no id")
		}
		return exec.BeginTransaction{}, true, nil
	case "COMMIT":
		id, err := parseTxID(fields)
		if err != nil {
			return nil, true, err
		}
		return exec.CommitTransaction{TxID: id}, true, nil
	case "ABORT":
		id, err := parseTxID(fields)
		if err != nil {
			return nil, true, err
		}
		return exec.AbortTransaction{TxID: id}, true, nil
	default:
		return nil, false, nil
	}
}

func parseTxID(fields []string) (uint64, error) {
	if len(fields) != 3 {
		return 0, fmt.Errorf("expected a single transaction id, got %q", strings.Join(fields[2:], " "))
	}
	id, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q: %w", fields[2], err)
	}
	return id, nil
}

func convertCreateTable(stmt *ast.CreateTableStmt) (exec.Statement, error) {
	cols := make([]schema.ColumnDef, 0, len(stmt.Cols))
	byName := make(map[string]int, len(stmt.Cols))

	for _, c := range stmt.Cols {
		def := schema.ColumnDef{
			Name: c.Name.Name.O,
			Type: parseColumnType(c.Tp.String()),
		}
		for _, opt := range c.Options {
			switch opt.Tp {
			case ast.ColumnOptionNotNull:
				def.NotNull = true
			case ast.ColumnOptionPrimaryKey:
				def.PrimaryKey = true
				def.NotNull = true
			}
		}
		byName[def.Name] = len(cols)
		cols = append(cols, def)
	}

	for _, constraint := range stmt.Constraints {
		if constraint.Tp != ast.ConstraintPrimaryKey {
			continue
		}
		for _, key := range constraint.Keys {
			if idx, ok := byName[key.Column.Name.O]; ok {
				cols[idx].PrimaryKey = true
				cols[idx].NotNull = true
			}
		}
	}

	return exec.CreateTable{Name: stmt.Table.Name.O, Columns: cols}, nil
}

// parseColumnType strips a length/precision suffix such as "(11)" or
// "(255)" before recognizing the base type name.
func parseColumnType(raw string) schema.ColumnType {
	base := raw
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	return schema.ParseColumnType(base)
}

func convertInsert(stmt *ast.InsertStmt) (exec.Statement, error) {
	table, err := tableNameFromRefs(stmt.Table)
	if err != nil {
		return nil, err
	}

	var colNames []string
	for _, c := range stmt.Columns {
		colNames = append(colNames, c.Name.O)
	}

	rows := make([][]string, 0, len(stmt.Lists))
	for _, list := range stmt.Lists {
		row := make([]string, 0, len(list))
		for _, expr := range list {
			s, err := exprToString(expr)
			if err != nil {
				return nil, err
			}
			row = append(row, s)
		}
		rows = append(rows, row)
	}

	return exec.Insert{Table: table, ColumnNames: colNames, ValueRows: rows}, nil
}

func convertSelect(stmt *ast.SelectStmt) (exec.Statement, error) {
	if stmt.From == nil {
		return nil, fmt.Errorf("SELECT without FROM is not supported")
	}
	table, err := tableNameFromRefs(stmt.From)
	if err != nil {
		return nil, err
	}

	var cols []string
	if stmt.Fields != nil {
		for _, f := range stmt.Fields.Fields {
			if f.WildCard != nil {
				cols = nil
				break
			}
			name, ok := f.Expr.(*ast.ColumnNameExpr)
			if !ok {
				return nil, fmt.Errorf("unsupported SELECT projection expression %T", f.Expr)
			}
			cols = append(cols, name.Name.Name.O)
		}
	}

	conds, err := flattenWhere(stmt.Where)
	if err != nil {
		return nil, err
	}

	return exec.Select{Columns: cols, Table: table, Conditions: conds}, nil
}

func convertUpdate(stmt *ast.UpdateStmt) (exec.Statement, error) {
	table, err := tableNameFromRefs(stmt.TableRefs)
	if err != nil {
		return nil, err
	}

	assignments := make(map[string]string, len(stmt.List))
	for _, a := range stmt.List {
		s, err := exprToString(a.Expr)
		if err != nil {
			return nil, err
		}
		assignments[a.Column.Name.O] = s
	}

	conds, err := flattenWhere(stmt.Where)
	if err != nil {
		return nil, err
	}

	return exec.Update{Table: table, Assignments: assignments, Conditions: conds}, nil
}

func convertDelete(stmt *ast.DeleteStmt) (exec.Statement, error) {
	table, err := tableNameFromRefs(stmt.TableRefs)
	if err != nil {
		return nil, err
	}
	conds, err := flattenWhere(stmt.Where)
	if err != nil {
		return nil, err
	}
	return exec.Delete{Table: table, Conditions: conds}, nil
}

func convertDropTable(stmt *ast.DropTableStmt) (exec.Statement, error) {
	if len(stmt.Tables) != 1 {
		return nil, fmt.Errorf("DROP TABLE supports exactly one table name, got %d", len(stmt.Tables))
	}
	return exec.DropTable{Name: stmt.Tables[0].Name.O}, nil
}

func convertShow(stmt *ast.ShowStmt) (exec.Statement, error) {
	if stmt.Tp != ast.ShowTables {
		return nil, fmt.Errorf("unsupported SHOW statement kind %v", stmt.Tp)
	}
	return exec.ShowTables{}, nil
}

func tableNameFromRefs(refs *ast.TableRefsClause) (string, error) {
	if refs == nil || refs.TableRefs == nil {
		return "", fmt.Errorf("statement has no table reference")
	}
	join := refs.TableRefs
	src, ok := join.Left.(*ast.TableSource)
	if !ok {
		return "", fmt.Errorf("unsupported table reference %T", join.Left)
	}
	name, ok := src.Source.(*ast.TableName)
	if !ok {
		return "", fmt.Errorf("unsupported table source %T", src.Source)
	}
	return name.Name.O, nil
}

func flattenWhere(expr ast.ExprNode) ([]schema.Condition, error) {
	if expr == nil {
		return nil, nil
	}
	if bin, ok := expr.(*ast.BinaryOperationExpr); ok && bin.Op == opcode.LogicAnd {
		left, err := flattenWhere(bin.L)
		if err != nil {
			return nil, err
		}
		right, err := flattenWhere(bin.R)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}

	cond, err := toCondition(expr)
	if err != nil {
		return nil, err
	}
	return []schema.Condition{cond}, nil
}

func toCondition(expr ast.ExprNode) (schema.Condition, error) {
	bin, ok := expr.(*ast.BinaryOperationExpr)
	if !ok {
		return schema.Condition{}, fmt.Errorf("unsupported WHERE expression %T", expr)
	}
	col, ok := bin.L.(*ast.ColumnNameExpr)
	if !ok {
		return schema.Condition{}, fmt.Errorf("left side of a condition must be a column reference")
	}
	op, ok := opToString(bin.Op)
	if !ok {
		return schema.Condition{}, fmt.Errorf("unsupported comparison operator %v", bin.Op)
	}
	raw, err := exprToString(bin.R)
	if err != nil {
		return schema.Condition{}, err
	}

	return schema.Condition{
		Column: col.Name.Name.O,
		Op:     schema.Op(op),
		Value:  parseLiteral(raw),
	}, nil
}

func opToString(op opcode.Op) (string, bool) {
	switch op {
	case opcode.EQ:
		return "=", true
	case opcode.NE:
		return "!=", true
	case opcode.LT:
		return "<", true
	case opcode.GT:
		return ">", true
	case opcode.LE:
		return "<=", true
	case opcode.GE:
		return ">=", true
	default:
		return "", false
	}
}

// parseLiteral resolves a WHERE-clause literal to a value.Value without
// column-type context: a quoted literal becomes Text, an unquoted
// integer/float literal becomes Int64/Float64, NULL becomes Null, and
// anything else falls back to Text.
func parseLiteral(raw string) value.Value {
	if strings.EqualFold(raw, "NULL") {
		return value.Null
	}
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return value.Text(raw[1 : len(raw)-1])
		}
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int64(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Float64(f)
	}
	return value.Text(raw)
}

// exprToString renders expr back to SQL text, used both for INSERT
// value literals (where the caller coerces against a known column
// type) and for UPDATE assignment values.
func exprToString(expr ast.ExprNode) (string, error) {
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(ctx); err != nil {
		return "", fmt.Errorf("restore expression: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
