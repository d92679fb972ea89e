// Package exec is the executor façade: it takes a parsed Statement and
// a Database (plus a transaction Manager for the statements that need
// one) and produces a Result, dispatching on the statement's concrete
// type over a closed set of variants.
package exec

import "reldb/internal/schema"

// Statement is the sealed interface implemented by exactly the ten
// statement variants below. statement is unexported so no type outside
// this package can satisfy it. A new variant also needs a case in
// Executor.Execute; without one, Execute reports it as an
// unrecognized statement at run time.
type Statement interface {
	statement()
}

// CreateTable declares a new table.
type CreateTable struct {
	Name    string
	Columns []schema.ColumnDef
}

// Insert adds one or more rows to an existing table. ColumnNames is nil
// when values are supplied positionally for every column; otherwise it
// names, in order, which column each entry of each ValueRows row fills
// (unspecified columns default to Null). Each raw value is a string
// coerced against its target column's type at execution time. TxID is
// 0 for an untransacted insert.
type Insert struct {
	Table       string
	ColumnNames []string
	ValueRows   [][]string
	TxID        uint64
}

// Select reads rows from a table. Columns is nil or empty to project
// every column.
type Select struct {
	Columns    []string
	Table      string
	Conditions []schema.Condition
}

// Update rewrites matching rows. Assignments maps column name to a raw
// value string, coerced against that column's type at execution time.
type Update struct {
	Table       string
	Assignments map[string]string
	Conditions  []schema.Condition
	TxID        uint64
}

// Delete removes matching rows.
type Delete struct {
	Table      string
	Conditions []schema.Condition
	TxID       uint64
}

// DropTable removes a table entirely.
type DropTable struct {
	Name string
}

// ShowTables lists every table name in creation order.
type ShowTables struct{}

// BeginTransaction starts a new transaction and returns its id.
type BeginTransaction struct{}

// CommitTransaction ends TxID, discarding its pre-images.
type CommitTransaction struct {
	TxID uint64
}

// AbortTransaction ends TxID, restoring every table it captured.
type AbortTransaction struct {
	TxID uint64
}

func (CreateTable) statement()       {}
func (Insert) statement()            {}
func (Select) statement()            {}
func (Update) statement()            {}
func (Delete) statement()            {}
func (DropTable) statement()         {}
func (ShowTables) statement()        {}
func (BeginTransaction) statement()  {}
func (CommitTransaction) statement() {}
func (AbortTransaction) statement()  {}
