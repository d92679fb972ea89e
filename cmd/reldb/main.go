// Package main contains the cli implementation of the tool. It uses
// the cobra package for cli tool implementation, matching the style of
// the migration tool this project is descended from.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"reldb/internal/catalog"
	"reldb/internal/exec"
	"reldb/internal/export"
	"reldb/internal/output"
	"reldb/internal/repl"
	"reldb/internal/schema"
	"reldb/internal/schemaload"
	"reldb/internal/sqltext"
	"reldb/internal/txn"
)

type replFlags struct {
	schema string
	format string
}

type execFlags struct {
	format string
}

type exportFlags struct {
	dsn                   string
	schema                string
	dryRun                bool
	transaction           bool
	allowNonTransactional bool
	unsafe                bool
	skipConfirmation      bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "reldb",
		Short: "In-memory relational store with an optional MySQL export path",
	}

	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(execCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func replCmd() *cobra.Command {
	flags := &replFlags{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL session",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRepl(flags)
		},
	}
	cmd.Flags().StringVar(&flags.schema, "schema", "", "Optional TOML schema file to load before starting")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "human", "Output format: human or json")
	return cmd
}

func runRepl(flags *replFlags) error {
	db := catalog.New()
	if flags.schema != "" {
		if err := loadSchemaFile(db, flags.schema); err != nil {
			return err
		}
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}

	e := exec.New(db, txn.NewManager())
	return repl.New(os.Stdin, os.Stdout, e, formatter).Run()
}

func execCmd() *cobra.Command {
	flags := &execFlags{}
	cmd := &cobra.Command{
		Use:   "exec <script.sql>",
		Short: "Run every statement in a file non-interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExec(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", "human", "Output format: human or json")
	return cmd
}

func runExec(path string, flags *execFlags) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}

	db := catalog.New()
	e := exec.New(db, txn.NewManager())

	scanner := bufio.NewScanner(f)
	failed := false
	for scanner.Scan() {
		line := scanner.Text()
		if isBlankOrComment(line) {
			continue
		}

		stmt, err := sqltext.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %s\n", err)
			failed = true
			continue
		}

		result, err := e.Execute(stmt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			failed = true
			continue
		}

		rendered, err := formatter.Format(result)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if failed {
		return fmt.Errorf("one or more statements failed")
	}
	return nil
}

func isBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "--")
}

func exportCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Apply the in-memory schema to a live MySQL database",
		Long: `Connects to a MySQL database and creates one table per entry in a
TOML schema (or a small built-in demo schema if none is given).

This command performs preflight checks before execution:
- Warns about destructive operations
- Checks transaction safety of the generated statements
It does not check for blocking DDL.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runExport(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Database connection string (required unless --dry-run)")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "TOML schema file to export (uses a small demo schema if omitted)")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "d", false, "Print statements and run preflight checks without executing")
	cmd.Flags().BoolVarP(&flags.transaction, "transaction", "t", true, "Run the export in a transaction if possible")
	cmd.Flags().BoolVar(&flags.allowNonTransactional, "allow-non-transactional", false, "Allow non-transactional DDL when --transaction is set")
	cmd.Flags().BoolVarP(&flags.unsafe, "unsafe", "u", false, "Allow destructive operations")
	cmd.Flags().BoolVarP(&flags.skipConfirmation, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runExport(flags *exportFlags) error {
	if flags.dsn == "" && !flags.dryRun {
		return fmt.Errorf("--dsn is required unless --dry-run is set")
	}

	db := catalog.New()
	if flags.schema != "" {
		if err := loadSchemaFile(db, flags.schema); err != nil {
			return err
		}
	} else {
		loadDemoSchema(db)
	}

	e := export.NewExporter(export.Options{
		DSN:                   flags.dsn,
		DryRun:                flags.dryRun,
		Transaction:           flags.transaction,
		AllowNonTransactional: flags.allowNonTransactional,
		Unsafe:                flags.unsafe,
		SkipConfirmation:      flags.skipConfirmation,
		Out:                   os.Stdout,
		In:                    os.Stdin,
	})
	defer func() {
		_ = e.Close()
	}()

	ctx := context.Background()
	if !flags.dryRun {
		if err := e.Connect(ctx); err != nil {
			return err
		}
	}

	return e.Export(ctx, db)
}

func loadSchemaFile(db *catalog.Database, path string) error {
	defs, err := schemaload.NewParser().ParseFile(path)
	if err != nil {
		return err
	}
	return schemaload.Apply(db, defs)
}

func loadDemoSchema(db *catalog.Database) {
	_ = db.CreateTable("users", []schema.ColumnDef{
		{Name: "id", Type: schema.ColumnInt, PrimaryKey: true},
		{Name: "name", Type: schema.ColumnText},
	})
}
