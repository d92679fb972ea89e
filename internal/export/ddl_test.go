package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/catalog"
	"reldb/internal/schema"
)

func TestColumnDefSQL(t *testing.T) {
	tests := []struct {
		name string
		col  schema.ColumnDef
		want string
	}{
		{"int primary key", schema.ColumnDef{Name: "id", Type: schema.ColumnInt, PrimaryKey: true}, "id BIGINT PRIMARY KEY"},
		{"float plain", schema.ColumnDef{Name: "score", Type: schema.ColumnFloat}, "score DOUBLE"},
		{"text not null", schema.ColumnDef{Name: "name", Type: schema.ColumnText, NotNull: true}, "name TEXT NOT NULL"},
		{"primary key implies not null clause is omitted", schema.ColumnDef{Name: "id", Type: schema.ColumnInt, PrimaryKey: true, NotNull: true}, "id BIGINT PRIMARY KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, columnDefSQL(tt.col))
		})
	}
}

func TestBuildMigrationGeneratesCreateAndDropPerTable(t *testing.T) {
	db := catalog.New()
	require.NoError(t, db.CreateTable("users", []schema.ColumnDef{
		{Name: "id", Type: schema.ColumnInt, PrimaryKey: true},
		{Name: "name", Type: schema.ColumnText},
	}))
	require.NoError(t, db.CreateTable("orders", []schema.ColumnDef{
		{Name: "id", Type: schema.ColumnInt, PrimaryKey: true},
	}))

	m := BuildMigration(db)
	require.Len(t, m.Operations, 2)

	assert.Equal(t, "CREATE TABLE users (id BIGINT PRIMARY KEY, name TEXT)", m.Operations[0].SQL)
	assert.Equal(t, "DROP TABLE users", m.Operations[0].RollbackSQL)
	assert.Equal(t, "CREATE TABLE orders (id BIGINT PRIMARY KEY)", m.Operations[1].SQL)
	assert.Equal(t, "DROP TABLE orders", m.Operations[1].RollbackSQL)
}

func TestBuildMigrationOnEmptyDatabaseIsEmpty(t *testing.T) {
	m := BuildMigration(catalog.New())
	assert.Empty(t, m.Operations)
}
