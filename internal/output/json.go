package output

import (
	"encoding/json"

	"reldb/internal/exec"
)

type jsonFormatter struct{}

type resultPayload struct {
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty"`
	Count   int      `json:"count,omitempty"`
	TxID    uint64   `json:"txId,omitempty"`
	Tables  []string `json:"tables,omitempty"`
}

// Format renders r as an indented JSON object. Value.String() is used
// for cell rendering so NULL, ints, floats, and text all marshal as
// JSON strings rather than requiring a second coercion back from
// value.Value's internal representation.
func (jsonFormatter) Format(r exec.Result) (string, error) {
	payload := resultPayload{
		Count:  r.Count,
		TxID:   r.TxID,
		Tables: r.Tables,
	}

	if r.Columns != nil {
		payload.Columns = make([]string, len(r.Columns))
		for i, c := range r.Columns {
			payload.Columns[i] = c.Name
		}
	}

	if r.Rows != nil {
		payload.Rows = make([][]any, len(r.Rows))
		for i, row := range r.Rows {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = v.String()
			}
			payload.Rows[i] = cells
		}
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
