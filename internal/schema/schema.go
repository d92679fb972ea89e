// Package schema holds column definitions, row representation, and the
// condition evaluator shared by internal/table and internal/exec.
package schema

import (
	"strings"

	"reldb/internal/value"
)

// ColumnType is the declared type of a column.
type ColumnType int

const (
	ColumnNull ColumnType = iota
	ColumnInt
	ColumnFloat
	ColumnText
)

// String renders the type name, mostly for error messages.
func (t ColumnType) String() string {
	switch t {
	case ColumnNull:
		return "NULL"
	case ColumnInt:
		return "INT"
	case ColumnFloat:
		return "FLOAT"
	case ColumnText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// Matches reports whether v's kind matches t. Null always matches (NOT
// NULL is enforced separately).
func (t ColumnType) Matches(v value.Value) bool {
	if v.IsNull() {
		return true
	}
	switch t {
	case ColumnInt:
		return v.Kind == value.KindInt64
	case ColumnFloat:
		return v.Kind == value.KindFloat64
	case ColumnText:
		return v.Kind == value.KindText
	default:
		return false
	}
}

// ParseColumnType maps a SQL type-name token to a ColumnType, matching
// case-insensitively. INT and INTEGER map to Int; FLOAT and REAL map to
// Float; TEXT, VARCHAR, and CHAR map to Text; anything else maps to
// Null — accepted syntactically but unusable as a column type.
func ParseColumnType(name string) ColumnType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INT", "INTEGER":
		return ColumnInt
	case "FLOAT", "REAL":
		return ColumnFloat
	case "TEXT", "VARCHAR", "CHAR":
		return ColumnText
	default:
		return ColumnNull
	}
}

// ParseOp maps a comparison operator token to an Op. The bool reports
// whether op was one of the recognized operator strings.
func ParseOp(op string) (Op, bool) {
	switch Op(op) {
	case OpEq, OpNeq, OpLt, OpGt, OpLte, OpGte:
		return Op(op), true
	default:
		return "", false
	}
}

// ColumnDef describes a single column of a table.
type ColumnDef struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	NotNull    bool
}

// Row is an ordered sequence of values, one per column.
type Row []value.Value

// Clone returns an independent copy of r, used when a table takes a
// transaction pre-image snapshot.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// CloneRows deep-copies a row sequence.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// Op is a comparison operator recognized by Condition.
type Op string

const (
	OpEq  Op = "="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLte Op = "<="
	OpGte Op = ">="
)

// Condition is a single predicate: column_name <op> value.
type Condition struct {
	Column string
	Op     Op
	Value  value.Value
}

// ColumnIndex returns the position of name in cols, or -1 if absent.
func ColumnIndex(cols []ColumnDef, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Match evaluates a single condition against row r given the table's
// column list. A condition whose column is absent is always false. An
// unrecognized operator is always false.
func (c Condition) Match(cols []ColumnDef, r Row) bool {
	idx := ColumnIndex(cols, c.Column)
	if idx < 0 {
		return false
	}
	lhs := r[idx]
	switch c.Op {
	case OpEq:
		return value.Equal(lhs, c.Value)
	case OpNeq:
		return !value.Equal(lhs, c.Value)
	case OpLt:
		return value.Less(lhs, c.Value)
	case OpGt:
		return value.Less(c.Value, lhs)
	case OpLte:
		return value.Less(lhs, c.Value) || value.Equal(lhs, c.Value)
	case OpGte:
		return value.Less(c.Value, lhs) || value.Equal(lhs, c.Value)
	default:
		return false
	}
}

// MatchAll evaluates a conjunctive list of conditions; an empty list
// matches every row.
func MatchAll(conds []Condition, cols []ColumnDef, r Row) bool {
	for _, c := range conds {
		if !c.Match(cols, r) {
			return false
		}
	}
	return true
}
