// Package output renders an exec.Result for a human reading a
// terminal or a program consuming JSON, writing to a caller-supplied
// io.Writer — there is no background logger, only explicit formatted
// writes.
package output

import (
	"fmt"
	"strings"

	"reldb/internal/exec"
)

// Format names a rendering mode.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Formatter renders one exec.Result as text.
type Formatter interface {
	Format(exec.Result) (string, error)
}

// NewFormatter resolves name to a Formatter, defaulting to human when
// name is empty.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s; use 'human' or 'json'", name)
	}
}
