package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"reldb/internal/exec"
)

type humanFormatter struct{}

// Format renders r the way a REPL user expects: a tab-aligned row set
// for SELECT, a table listing for SHOW TABLES, a bare affected-row
// count for INSERT/UPDATE/DELETE, and a transaction id for BEGIN.
func (humanFormatter) Format(r exec.Result) (string, error) {
	var sb strings.Builder

	switch {
	case r.Tables != nil:
		writeTableList(&sb, r.Tables)
	case r.Columns != nil:
		writeRowSet(&sb, r)
	case r.TxID != 0:
		fmt.Fprintf(&sb, "transaction %d started\n", r.TxID)
	default:
		fmt.Fprintf(&sb, "%d row(s) affected\n", r.Count)
	}

	return sb.String(), nil
}

func writeTableList(sb *strings.Builder, tables []string) {
	if len(tables) == 0 {
		sb.WriteString("(no tables)\n")
		return
	}
	for _, name := range tables {
		fmt.Fprintln(sb, name)
	}
}

func writeRowSet(sb *strings.Builder, r exec.Result) {
	tw := tabwriter.NewWriter(sb, 0, 2, 2, ' ', 0)

	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))

	for _, row := range r.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	tw.Flush()
	fmt.Fprintf(sb, "(%d row(s))\n", len(r.Rows))
}
