package export

import (
	"fmt"
	"strings"

	"reldb/internal/catalog"
	"reldb/internal/migration"
	"reldb/internal/schema"
)

// columnTypeSQL maps a schema.ColumnType to the MySQL column type used
// to recreate it, following the widest lossless mapping rather than a
// size-constrained one (reldb carries no column-length metadata).
func columnTypeSQL(t schema.ColumnType) string {
	switch t {
	case schema.ColumnInt:
		return "BIGINT"
	case schema.ColumnFloat:
		return "DOUBLE"
	case schema.ColumnText:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// columnDefSQL renders one column definition clause.
func columnDefSQL(c schema.ColumnDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", c.Name, columnTypeSQL(c.Type))
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull && !c.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}

// createTableSQL renders a full CREATE TABLE statement for one table.
func createTableSQL(name string, cols []schema.ColumnDef) string {
	clauses := make([]string, len(cols))
	for i, c := range cols {
		clauses[i] = columnDefSQL(c)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(clauses, ", "))
}

// dropTableSQL renders the rollback for createTableSQL.
func dropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE %s", name)
}

// BuildMigration walks every table in db, in creation order, and
// returns a migration.Migration of CREATE TABLE operations paired with
// their DROP TABLE rollback.
func BuildMigration(db *catalog.Database) *migration.Migration {
	m := &migration.Migration{}
	for _, name := range db.ListTables() {
		t, ok := db.GetTable(name)
		if !ok {
			continue
		}
		m.AddStatementWithRollback(createTableSQL(name, t.Columns), dropTableSQL(name))
	}
	m.Dedupe()
	return m
}
