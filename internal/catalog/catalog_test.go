package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/schema"
)

func cols() []schema.ColumnDef {
	return []schema.ColumnDef{{Name: "id", Type: schema.ColumnInt, PrimaryKey: true}}
}

func TestCreateTableRejectsDuplicateName(t *testing.T) {
	db := New()
	require.NoError(t, db.CreateTable("users", cols()))
	assert.Error(t, db.CreateTable("users", cols()))
}

func TestCreateTableRejectsMultiplePrimaryKeys(t *testing.T) {
	db := New()
	err := db.CreateTable("t", []schema.ColumnDef{
		{Name: "a", Type: schema.ColumnInt, PrimaryKey: true},
		{Name: "b", Type: schema.ColumnInt, PrimaryKey: true},
	})
	assert.Error(t, err)
	assert.False(t, db.TableExists("t"))
}

func TestDropTableFailsIfAbsent(t *testing.T) {
	db := New()
	assert.Error(t, db.DropTable("nope"))
}

func TestGetTableAndListTables(t *testing.T) {
	db := New()
	require.NoError(t, db.CreateTable("users", cols()))
	require.NoError(t, db.CreateTable("orders", cols()))

	_, ok := db.GetTable("users")
	assert.True(t, ok)
	_, ok = db.GetTable("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"users", "orders"}, db.ListTables())

	require.NoError(t, db.DropTable("users"))
	assert.Equal(t, []string{"orders"}, db.ListTables())
	assert.False(t, db.TableExists("users"))
}
