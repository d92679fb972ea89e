// Package table implements the Table abstraction: a heap of rows plus
// an optional primary-key B+ tree index from key value to logical row
// slot, with insert/select/update/delete operating on top of both.
package table

import (
	"fmt"

	"reldb/internal/btree"
	"reldb/internal/schema"
	"reldb/internal/value"
)

// Table owns its row heap and, if one of its columns is a primary key,
// a B+ tree index from that column's value to the row's current slot.
type Table struct {
	Name    string
	Columns []schema.ColumnDef

	rows    []schema.Row
	pkCol   int // -1 if the table has no primary key
	pkIndex *btree.Tree[value.Value, int]
}

// New validates cols and constructs an empty table. It rejects more
// than one primary-key column and a primary key declared on a Float or
// Null column (only Int and Text primary keys are supported).
func New(name string, cols []schema.ColumnDef) (*Table, error) {
	pkCol := -1
	for i, c := range cols {
		if !c.PrimaryKey {
			continue
		}
		if pkCol != -1 {
			return nil, fmt.Errorf("table %q: multiple primary key columns declared", name)
		}
		if c.Type != schema.ColumnInt && c.Type != schema.ColumnText {
			return nil, fmt.Errorf("table %q: primary key column %q must be INT or TEXT", name, c.Name)
		}
		pkCol = i
	}

	t := &Table{
		Name:    name,
		Columns: cols,
		pkCol:   pkCol,
	}
	if pkCol != -1 {
		t.pkIndex = btree.New[value.Value, int](btree.DefaultOrder, value.Less)
	}
	return t, nil
}

// ColumnIndex returns the position of name among t's columns, or -1.
func (t *Table) ColumnIndex(name string) int {
	return schema.ColumnIndex(t.Columns, name)
}

// RowCount returns the number of live rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Rows returns a defensive copy of the current row sequence, used to
// capture a transaction pre-image.
func (t *Table) Rows() []schema.Row {
	return schema.CloneRows(t.rows)
}

// SetRows replaces the row sequence wholesale, used to restore a
// transaction pre-image on abort. The PK index is intentionally left
// untouched — see DESIGN.md for why this mirrors the accepted source
// limitation rather than rebuilding it from the restored rows.
func (t *Table) SetRows(rows []schema.Row) {
	t.rows = schema.CloneRows(rows)
}

// pkLookup resolves key through the PK index and tolerates stale
// entries left behind by Remove: a position at or past the current row
// count is treated as "not found" rather than dereferenced.
func (t *Table) pkLookup(key value.Value) (int, bool) {
	if t.pkIndex == nil {
		return 0, false
	}
	pos, ok := t.pkIndex.Find(key)
	if !ok || pos >= len(t.rows) {
		return 0, false
	}
	return pos, true
}

// Insert appends row if it satisfies every column constraint: correct
// length, NOT NULL, exact type match, and (if a PK index exists)
// primary-key uniqueness. It returns false and leaves the table
// unchanged on any violation.
func (t *Table) Insert(row schema.Row) bool {
	if len(row) != len(t.Columns) {
		return false
	}
	for i, c := range t.Columns {
		v := row[i]
		if c.NotNull && v.IsNull() {
			return false
		}
		if !v.IsNull() && !c.Type.Matches(v) {
			return false
		}
	}
	if t.pkCol != -1 {
		if _, exists := t.pkLookup(row[t.pkCol]); exists {
			return false
		}
	}

	pos := len(t.rows)
	t.rows = append(t.rows, row)
	if t.pkCol != -1 {
		t.pkIndex.Insert(row[t.pkCol], pos)
	}
	return true
}

// Select returns every row matching conds, preserving insertion order.
// When the table has a PK index and conds is a single PK-equality
// condition whose value matches the PK column's type, it resolves
// through the index instead of scanning.
func (t *Table) Select(conds []schema.Condition) []schema.Row {
	if t.pkCol != -1 && len(conds) == 1 {
		c := conds[0]
		if c.Op == schema.OpEq && c.Column == t.Columns[t.pkCol].Name && t.Columns[t.pkCol].Type.Matches(c.Value) && !c.Value.IsNull() {
			pos, ok := t.pkLookup(c.Value)
			if !ok {
				return nil
			}
			return []schema.Row{t.rows[pos]}
		}
	}

	var out []schema.Row
	for _, r := range t.rows {
		if schema.MatchAll(conds, t.Columns, r) {
			out = append(out, r)
		}
	}
	return out
}

// Update applies assignments to every row matching conds, in insertion
// order, returning the number of rows whose assignment step ran to
// completion. Unknown assignment column names are ignored. A row whose
// PK would collide with another live row is skipped entirely. A single
// field assignment whose value's variant doesn't match the column's
// type is silently skipped without aborting the rest of the row.
func (t *Table) Update(assignments map[string]value.Value, conds []schema.Condition) int {
	resolved := make(map[int]value.Value, len(assignments))
	for name, v := range assignments {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		resolved[idx] = v
	}

	count := 0
	for pos := range t.rows {
		row := t.rows[pos]
		if !schema.MatchAll(conds, t.Columns, row) {
			continue
		}

		if t.pkCol != -1 {
			if newPK, touchesPK := resolved[t.pkCol]; touchesPK {
				if existing, exists := t.pkLookup(newPK); exists && existing != pos {
					continue
				}
			}
		}

		for idx, v := range resolved {
			if !v.IsNull() && !t.Columns[idx].Type.Matches(v) {
				continue
			}
			row[idx] = v
		}
		t.rows[pos] = row

		if t.pkCol != -1 {
			if _, touchesPK := resolved[t.pkCol]; touchesPK {
				t.pkIndex.Insert(row[t.pkCol], pos)
			}
		}

		count++
	}
	return count
}

// Remove deletes every row matching conds from the row sequence. The
// PK index is not updated — positions recorded for deleted rows become
// stale and are filtered out later by pkLookup's bounds check.
func (t *Table) Remove(conds []schema.Condition) int {
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if schema.MatchAll(conds, t.Columns, r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return removed
}
