package exec

import (
	"reldb/internal/catalog"
	"reldb/internal/schema"
	"reldb/internal/txn"
	"reldb/internal/value"
)

// Result is the executor's output envelope. Which fields are
// meaningful depends on which Statement variant produced it: Columns
// and Rows for Select, Count for Insert/Update/Delete, TxID for
// BeginTransaction, Tables for ShowTables. CreateTable, DropTable,
// CommitTransaction, and AbortTransaction carry no payload — a nil
// error is their success indicator.
type Result struct {
	Columns []schema.ColumnDef
	Rows    []schema.Row
	Count   int
	TxID    uint64
	Tables  []string
}

// Executor dispatches statements against a Database, using a
// transaction Manager for the statements that touch one. There is no
// global singleton: a caller constructs one Executor per
// Database/Manager pair it owns.
type Executor struct {
	db *catalog.Database
	tm *txn.Manager
}

// New returns an Executor over db and tm.
func New(db *catalog.Database, tm *txn.Manager) *Executor {
	return &Executor{db: db, tm: tm}
}

// Execute dispatches stmt to its variant's handler.
func (e *Executor) Execute(stmt Statement) (Result, error) {
	switch s := stmt.(type) {
	case CreateTable:
		return e.execCreateTable(s)
	case Insert:
		return e.execInsert(s)
	case Select:
		return e.execSelect(s)
	case Update:
		return e.execUpdate(s)
	case Delete:
		return e.execDelete(s)
	case DropTable:
		return e.execDropTable(s)
	case ShowTables:
		return e.execShowTables(s)
	case BeginTransaction:
		return e.execBeginTransaction(s)
	case CommitTransaction:
		return e.execCommitTransaction(s)
	case AbortTransaction:
		return e.execAbortTransaction(s)
	default:
		return Result{}, newError(SchemaViolation, "unrecognized statement type %T", stmt)
	}
}

func (e *Executor) execCreateTable(s CreateTable) (Result, error) {
	if e.db.TableExists(s.Name) {
		return Result{}, newError(Duplicate, "table %q already exists", s.Name)
	}
	if err := e.db.CreateTable(s.Name, s.Columns); err != nil {
		return Result{}, newError(SchemaViolation, "%s", err)
	}
	return Result{}, nil
}

func (e *Executor) execDropTable(s DropTable) (Result, error) {
	if err := e.db.DropTable(s.Name); err != nil {
		return Result{}, newError(NotFound, "%s", err)
	}
	return Result{}, nil
}

func (e *Executor) execShowTables(ShowTables) (Result, error) {
	return Result{Tables: e.db.ListTables()}, nil
}

func (e *Executor) execBeginTransaction(BeginTransaction) (Result, error) {
	return Result{TxID: e.tm.Begin()}, nil
}

func (e *Executor) execCommitTransaction(s CommitTransaction) (Result, error) {
	if err := e.tm.Commit(s.TxID); err != nil {
		return Result{}, newError(TransactionState, "%s", err)
	}
	return Result{}, nil
}

func (e *Executor) execAbortTransaction(s AbortTransaction) (Result, error) {
	if err := e.tm.Abort(s.TxID, e.db); err != nil {
		return Result{}, newError(TransactionState, "%s", err)
	}
	return Result{}, nil
}

func (e *Executor) execInsert(s Insert) (Result, error) {
	t, ok := e.db.GetTable(s.Table)
	if !ok {
		return Result{}, newError(NotFound, "table %q does not exist", s.Table)
	}

	if s.TxID != 0 {
		e.tm.Capture(s.TxID, t.Name, t.Rows())
	}

	count := 0
	for _, raw := range s.ValueRows {
		row, ok := buildInsertRow(t.Columns, s.ColumnNames, raw)
		if !ok {
			continue
		}
		if t.Insert(row) {
			count++
		}
	}
	return Result{Count: count}, nil
}

// buildInsertRow constructs a schema.Row from one VALUES tuple. When
// names is empty, raw must supply exactly one value per column,
// positionally. Otherwise raw and names must be equal length and every
// name must resolve to a real column; unspecified columns default to
// Null. The second return is false when the tuple cannot be mapped
// onto cols at all (wrong arity, unknown column name) — as opposed to
// a per-column type mismatch, which is left for Table.Insert to reject.
func buildInsertRow(cols []schema.ColumnDef, names []string, raw []string) (schema.Row, bool) {
	row := make(schema.Row, len(cols))

	if len(names) == 0 {
		if len(raw) != len(cols) {
			return nil, false
		}
		for i, v := range raw {
			row[i] = coerceValue(v, cols[i].Type)
		}
		return row, true
	}

	if len(raw) != len(names) {
		return nil, false
	}
	for i := range row {
		row[i] = value.Null
	}
	for i, name := range names {
		idx := schema.ColumnIndex(cols, name)
		if idx < 0 {
			return nil, false
		}
		row[idx] = coerceValue(raw[i], cols[idx].Type)
	}
	return row, true
}

func (e *Executor) execSelect(s Select) (Result, error) {
	t, ok := e.db.GetTable(s.Table)
	if !ok {
		return Result{}, newError(NotFound, "table %q does not exist", s.Table)
	}

	rows := t.Select(s.Conditions)

	if len(s.Columns) == 0 {
		return Result{Columns: t.Columns, Rows: rows}, nil
	}

	projIdx := make([]int, len(s.Columns))
	projCols := make([]schema.ColumnDef, len(s.Columns))
	for i, name := range s.Columns {
		idx := schema.ColumnIndex(t.Columns, name)
		if idx < 0 {
			return Result{}, newError(NotFound, "column %q does not exist on table %q", name, s.Table)
		}
		projIdx[i] = idx
		projCols[i] = t.Columns[idx]
	}

	projected := make([]schema.Row, len(rows))
	for i, r := range rows {
		out := make(schema.Row, len(projIdx))
		for j, idx := range projIdx {
			out[j] = r[idx]
		}
		projected[i] = out
	}
	return Result{Columns: projCols, Rows: projected}, nil
}

func (e *Executor) execUpdate(s Update) (Result, error) {
	t, ok := e.db.GetTable(s.Table)
	if !ok {
		return Result{}, newError(NotFound, "table %q does not exist", s.Table)
	}

	if s.TxID != 0 {
		e.tm.Capture(s.TxID, t.Name, t.Rows())
	}

	assignments := make(map[string]value.Value, len(s.Assignments))
	for name, raw := range s.Assignments {
		idx := schema.ColumnIndex(t.Columns, name)
		if idx < 0 {
			// Unknown column names are ignored, matching
			// Table.Update's own tolerance.
			continue
		}
		assignments[name] = coerceValue(raw, t.Columns[idx].Type)
	}

	count := t.Update(assignments, s.Conditions)
	return Result{Count: count}, nil
}

func (e *Executor) execDelete(s Delete) (Result, error) {
	t, ok := e.db.GetTable(s.Table)
	if !ok {
		return Result{}, newError(NotFound, "table %q does not exist", s.Table)
	}

	if s.TxID != 0 {
		e.tm.Capture(s.TxID, t.Name, t.Rows())
	}

	count := t.Remove(s.Conditions)
	return Result{Count: count}, nil
}
