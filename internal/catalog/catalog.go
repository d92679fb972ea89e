// Package catalog implements the Database: a named catalog mapping
// table name to Table.
//
// The Database and its Tables are not internally synchronized — the
// execution model assumes the statement executor is the sole mutator
// at any instant. The internal/txn.Manager's mutex is the only
// synchronization primitive in the system.
package catalog

import (
	"fmt"

	"reldb/internal/schema"
	"reldb/internal/table"
)

// Database is a catalog of tables, unique by name.
type Database struct {
	tables map[string]*table.Table
	order  []string // preserves creation order for ListTables
}

// New returns an empty, ready-to-use Database.
func New() *Database {
	return &Database{tables: make(map[string]*table.Table)}
}

// CreateTable creates a new table, rejecting a duplicate name or a
// column set declaring more than one primary key (surfaced from
// table.New).
func (db *Database) CreateTable(name string, cols []schema.ColumnDef) error {
	if _, exists := db.tables[name]; exists {
		return fmt.Errorf("table %q already exists", name)
	}

	t, err := table.New(name, cols)
	if err != nil {
		return err
	}

	db.tables[name] = t
	db.order = append(db.order, name)
	return nil
}

// DropTable removes a table, failing if it is absent.
func (db *Database) DropTable(name string) error {
	if _, exists := db.tables[name]; !exists {
		return fmt.Errorf("table %q does not exist", name)
	}
	delete(db.tables, name)
	for i, n := range db.order {
		if n == name {
			db.order = append(db.order[:i], db.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetTable returns the named table, or false if absent.
func (db *Database) GetTable(name string) (*table.Table, bool) {
	t, ok := db.tables[name]
	return t, ok
}

// TableExists reports whether name is a known table.
func (db *Database) TableExists(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// ListTables returns table names in creation order.
func (db *Database) ListTables() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}
