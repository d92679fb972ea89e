// Package repl is a line-oriented interactive front end: it reads one
// statement per line from an io.Reader, executes it through
// exec.Executor (after translating SQL text via internal/sqltext), and
// renders the result through internal/output. Like internal/sqltext,
// it is an external collaborator — it never touches catalog/table/txn
// state directly, only exec.Statement and exec.Result.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"reldb/internal/exec"
	"reldb/internal/output"
	"reldb/internal/sqltext"
)

// Repl drives one interactive session.
type Repl struct {
	scanner   *bufio.Scanner
	out       io.Writer
	executor  *exec.Executor
	formatter output.Formatter
	prompt    string
}

// New builds a Repl reading lines from in, executing against executor,
// and writing rendered results (and the "reldb> " prompt) to out.
func New(in io.Reader, out io.Writer, executor *exec.Executor, formatter output.Formatter) *Repl {
	return &Repl{
		scanner:   bufio.NewScanner(in),
		out:       out,
		executor:  executor,
		formatter: formatter,
		prompt:    "reldb> ",
	}
}

// Run reads lines until EOF or an ".exit"/".quit" command, executing
// each non-blank, non-comment line as one statement. A statement that
// fails to parse or execute prints its error and continues the
// session rather than aborting it.
func (r *Repl) Run() error {
	for {
		fmt.Fprint(r.out, r.prompt)
		if !r.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if line == ".exit" || line == ".quit" {
			return nil
		}

		r.runLine(line)
	}
	return r.scanner.Err()
}

func (r *Repl) runLine(line string) {
	stmt, err := sqltext.Parse(line)
	if err != nil {
		fmt.Fprintf(r.out, "parse error: %s\n", err)
		return
	}

	result, err := r.executor.Execute(stmt)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			fmt.Fprintf(r.out, "error [%s]: %s\n", execErr.Kind, execErr.Message)
		} else {
			fmt.Fprintf(r.out, "error: %s\n", err)
		}
		return
	}

	rendered, err := r.formatter.Format(result)
	if err != nil {
		fmt.Fprintf(r.out, "format error: %s\n", err)
		return
	}
	fmt.Fprint(r.out, rendered)
}
