package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/exec"
	"reldb/internal/schema"
	"reldb/internal/value"
)

func TestJSONFormatRowSet(t *testing.T) {
	r := exec.Result{
		Columns: []schema.ColumnDef{{Name: "id", Type: schema.ColumnInt}},
		Rows:    []schema.Row{{value.Int64(1)}},
	}

	out, err := jsonFormatter{}.Format(r)
	require.NoError(t, err)

	var decoded resultPayload
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"id"}, decoded.Columns)
	assert.Equal(t, [][]any{{"1"}}, decoded.Rows)
}

func TestJSONFormatAffectedRows(t *testing.T) {
	out, err := jsonFormatter{}.Format(exec.Result{Count: 5})
	require.NoError(t, err)

	var decoded resultPayload
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 5, decoded.Count)
	assert.Empty(t, decoded.Columns)
}

func TestJSONFormatTables(t *testing.T) {
	out, err := jsonFormatter{}.Format(exec.Result{Tables: []string{"users"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"tables"`)
	assert.Contains(t, out, "users")
}
