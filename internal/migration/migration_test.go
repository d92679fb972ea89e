package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLStatements(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want []string
	}{
		{"empty operations", nil, []string{}},
		{
			name: "multiple SQL operations",
			ops: []Operation{
				{SQL: "CREATE TABLE users (id INT)"},
				{SQL: "CREATE TABLE posts (id INT)"},
			},
			want: []string{"CREATE TABLE users (id INT)", "CREATE TABLE posts (id INT)"},
		},
		{
			name: "empty SQL is skipped",
			ops: []Operation{
				{SQL: "CREATE TABLE users (id INT)"},
				{SQL: ""},
			},
			want: []string{"CREATE TABLE users (id INT)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migration{Operations: tt.ops}
			assert.Equal(t, tt.want, m.SQLStatements())
		})
	}
}

func TestRollbackStatements(t *testing.T) {
	m := &Migration{Operations: []Operation{
		{SQL: "CREATE TABLE users (id INT)", RollbackSQL: "DROP TABLE users"},
		{SQL: "INSERT INTO users VALUES (1)"},
		{SQL: "CREATE TABLE posts (id INT)", RollbackSQL: "DROP TABLE posts"},
	}}
	assert.Equal(t, []string{"DROP TABLE users", "DROP TABLE posts"}, m.RollbackStatements())
}

func TestAddStatementWithRollback(t *testing.T) {
	tests := []struct {
		name string
		up   string
		down string
		want []Operation
	}{
		{name: "both empty are ignored", up: "", down: "", want: nil},
		{name: "both whitespace only are ignored", up: "   ", down: "   ", want: nil},
		{
			name: "valid up and down statements",
			up:   "CREATE TABLE users (id INT)",
			down: "DROP TABLE users",
			want: []Operation{{SQL: "CREATE TABLE users (id INT)", RollbackSQL: "DROP TABLE users"}},
		},
		{
			name: "statements with whitespace are trimmed",
			up:   "  CREATE TABLE users (id INT)  ",
			down: "  DROP TABLE users  ",
			want: []Operation{{SQL: "CREATE TABLE users (id INT)", RollbackSQL: "DROP TABLE users"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migration{}
			m.AddStatementWithRollback(tt.up, tt.down)
			assert.Equal(t, tt.want, m.Operations)
		})
	}
}

func TestDedupeClearsDuplicateRollbackSQL(t *testing.T) {
	m := &Migration{Operations: []Operation{
		{SQL: "CREATE TABLE users", RollbackSQL: "DROP TABLE users"},
		{SQL: "CREATE TABLE posts", RollbackSQL: "DROP TABLE users"},
	}}
	m.Dedupe()

	assert.Equal(t, []Operation{
		{SQL: "CREATE TABLE users", RollbackSQL: "DROP TABLE users"},
		{SQL: "CREATE TABLE posts", RollbackSQL: ""},
	}, m.Operations)
}

func TestDedupeRemovesEmptyOperations(t *testing.T) {
	m := &Migration{Operations: []Operation{
		{SQL: "", RollbackSQL: ""},
		{SQL: "CREATE TABLE users"},
	}}
	m.Dedupe()
	assert.Equal(t, []Operation{{SQL: "CREATE TABLE users"}}, m.Operations)
}

func TestDedupePreservesOrder(t *testing.T) {
	m := &Migration{Operations: []Operation{
		{SQL: "First"},
		{SQL: "Second"},
		{SQL: "Third"},
	}}
	m.Dedupe()
	assert.Equal(t, []Operation{{SQL: "First"}, {SQL: "Second"}, {SQL: "Third"}}, m.Operations)
}
