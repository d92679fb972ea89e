// Package schemaload provides a parser for bulk table schemas
// expressed as TOML, letting a database be populated with many
// CREATE TABLE-equivalent declarations from a single file instead of
// one statement at a time.
package schemaload

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"reldb/internal/catalog"
	"reldb/internal/schema"
)

// A primary_key column's type is not checked here: catalog's
// CreateTable (through table.New) rejects non-INT/TEXT primary keys,
// and Apply wraps that error with the TOML table's name.

// tomlSchema is the top-level TOML document: a list of tables, each
// with a list of columns.
type tomlSchema struct {
	Tables []tomlTable `toml:"tables"`
}

type tomlTable struct {
	Name    string       `toml:"name"`
	Columns []tomlColumn `toml:"columns"`
}

type tomlColumn struct {
	Name       string `toml:"name"`
	Type       string `toml:"type"`
	PrimaryKey bool   `toml:"primary_key"`
	NotNull    bool   `toml:"not_null"`
}

// TableDef is one parsed table declaration, ready for
// catalog.Database.CreateTable.
type TableDef struct {
	Name    string
	Columns []schema.ColumnDef
}

// Parser reads bulk TOML schema files.
type Parser struct{}

// NewParser creates a new TOML schema parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens path and parses it as a TOML schema.
func (p *Parser) ParseFile(path string) ([]TableDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schemaload: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads TOML content from r and returns the declared tables.
func (p *Parser) Parse(r io.Reader) ([]TableDef, error) {
	var sf tomlSchema
	if _, err := toml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("schemaload: decode error: %w", err)
	}

	defs := make([]TableDef, 0, len(sf.Tables))
	for _, t := range sf.Tables {
		if t.Name == "" {
			return nil, fmt.Errorf("schemaload: table declaration missing a name")
		}
		cols := make([]schema.ColumnDef, 0, len(t.Columns))
		for _, c := range t.Columns {
			if c.Name == "" {
				return nil, fmt.Errorf("schemaload: table %q: column declaration missing a name", t.Name)
			}
			cols = append(cols, schema.ColumnDef{
				Name:       c.Name,
				Type:       schema.ParseColumnType(c.Type),
				PrimaryKey: c.PrimaryKey,
				NotNull:    c.NotNull,
			})
		}
		defs = append(defs, TableDef{Name: t.Name, Columns: cols})
	}

	return defs, nil
}

// Apply creates every table in defs against db, in declaration order,
// stopping at the first failure.
func Apply(db *catalog.Database, defs []TableDef) error {
	for _, d := range defs {
		if err := db.CreateTable(d.Name, d.Columns); err != nil {
			return fmt.Errorf("schemaload: table %q: %w", d.Name, err)
		}
	}
	return nil
}
