// Package export applies an in-memory catalog.Database's schema to a
// live MySQL database: it renders CREATE TABLE DDL for every table and
// runs it through database/sql with the go-sql-driver/mysql driver,
// with dry-run, transactional, and confirmation knobs around the
// execution.
package export

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"reldb/internal/catalog"
	"reldb/internal/migration"
)

// Options configures one export run.
type Options struct {
	DSN                   string
	DryRun                bool
	Transaction           bool
	AllowNonTransactional bool
	Unsafe                bool
	Out                   io.Writer
	In                    io.Reader
	SkipConfirmation      bool
}

// Exporter applies a catalog.Database's schema to a live MySQL
// database, printing preflight checks and per-operation progress as it
// goes. Unlike a general-purpose migration runner working from an
// arbitrary SQL or JSON file, every operation it applies comes from
// BuildMigration and therefore always carries a RollbackSQL — which
// lets a non-transactional run undo what it already applied instead of
// just reporting that it couldn't.
type Exporter struct {
	db       *sql.DB
	options  Options
	analyzer *StatementAnalyzer
	out      io.Writer
	in       io.Reader
}

// NewExporter returns an Exporter ready to Connect and Export.
func NewExporter(options Options) *Exporter {
	out := options.Out
	if out == nil {
		out = io.Discard
	}
	in := options.In
	if in == nil {
		in = os.Stdin
	}
	return &Exporter{
		options:  options,
		analyzer: NewStatementAnalyzer(),
		out:      out,
		in:       in,
	}
}

func (e *Exporter) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

func (e *Exporter) logln(args ...any) {
	_, _ = fmt.Fprintln(e.out, args...)
}

// Connect opens the MySQL connection and pings it.
func (e *Exporter) Connect(ctx context.Context) error {
	db, err := sql.Open("mysql", e.options.DSN)
	if err != nil {
		return fmt.Errorf("export: open connection: %w", err)
	}
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("export: ping database: %w", errors.Join(pingErr, db.Close()))
	}
	e.db = db
	return nil
}

// Close closes the connection, if one was opened.
func (e *Exporter) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Export builds a migration from db's current schema, runs preflight
// checks, and applies it — or, in dry-run mode, only reports it.
func (e *Exporter) Export(ctx context.Context, db *catalog.Database) error {
	m := BuildMigration(db)
	if len(m.Operations) == 0 {
		e.logln("Nothing to export: the database has no tables.")
		return nil
	}

	preflight := e.analyzer.AnalyzeStatements(m.SQLStatements(), e.options.Unsafe)
	e.reportPreflight(preflight)
	e.reportOperations(m.Operations)

	if e.options.DryRun {
		e.logln("\n=== DRY RUN MODE ===")
		e.logln("Run without --dry-run to apply.")
		return e.checkPreflight(preflight)
	}

	if err := e.checkPreflight(preflight); err != nil {
		return err
	}

	if !e.options.SkipConfirmation && !e.confirm(len(m.Operations)) {
		e.logln("\nExport canceled.")
		return nil
	}

	e.logln("\nApplying...")
	if e.options.Transaction && preflight.IsTransactional {
		return e.applyTransactional(ctx, m.Operations)
	}
	return e.applyWithRollback(ctx, m.Operations)
}

func (e *Exporter) reportPreflight(preflight *PreflightResult) {
	e.logln("Preflight:")
	if e.db != nil {
		e.logln("  connected to target database")
	}
	for _, msg := range preflight.Errors {
		e.logf("  ERROR: %s\n", msg)
	}
	for _, w := range preflight.Warnings {
		tag := "WARNING"
		if w.Level == WarnDanger {
			tag = "DANGER"
		}
		e.logf("  %s: %s\n", tag, w.Message)
	}
	if !preflight.IsTransactional {
		e.logln("  not transaction-safe:")
		for _, reason := range preflight.NonTxReasons {
			e.logf("    - %s\n", reason)
		}
	}
}

func (e *Exporter) reportOperations(ops []migration.Operation) {
	e.logln("\nOperations:")
	for i, op := range ops {
		e.logf("  %d. %s\n", i+1, op.SQL)
		if op.RollbackSQL != "" {
			e.logf("     rollback: %s\n", op.RollbackSQL)
		}
	}
}

// checkPreflight is the gate Export applies before it will touch the
// database, whether that's a real apply or just a dry-run report.
func (e *Exporter) checkPreflight(preflight *PreflightResult) error {
	if HasDestructiveOperations(preflight) && !e.options.Unsafe {
		return fmt.Errorf("export: destructive operations detected without --unsafe flag")
	}
	if e.options.Transaction && !preflight.IsTransactional && !e.options.AllowNonTransactional {
		return fmt.Errorf("export: non-transactional DDL detected without --allow-non-transactional flag")
	}
	return nil
}

func (e *Exporter) confirm(opCount int) bool {
	e.logf("\nApply %d operation(s)? [y/n]: ", opCount)
	reply, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil {
		return false
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	return reply == "y" || reply == "yes"
}

// applyTransactional runs every operation's forward SQL inside a single
// database transaction, relying on the server to undo everything on
// rollback.
func (e *Exporter) applyTransactional(ctx context.Context, ops []migration.Operation) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("export: begin transaction: %w", err)
	}

	for i, op := range ops {
		start := time.Now()
		if _, execErr := tx.ExecContext(ctx, op.SQL); execErr != nil {
			e.logf("  [%d/%d] FAILED: %s\n", i+1, len(ops), truncateSQL(op.SQL, 50))
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("export: %w (transaction rollback also failed: %v)", execErr, rbErr)
			}
			return fmt.Errorf("export: statement failed, transaction rolled back: %w\n  statement: %s", execErr, truncateSQL(op.SQL, 80))
		}
		e.logf("  [%d/%d] OK: %s (%.2fs)\n", i+1, len(ops), truncateSQL(op.SQL, 50), time.Since(start).Seconds())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("export: commit: %w", err)
	}
	e.logln("\nExport complete.")
	return nil
}

// applyWithRollback runs each operation's forward SQL as its own
// statement, outside a transaction. Because BuildMigration always
// pairs a CREATE TABLE with a DROP TABLE rollback, a failure partway
// through can be undone by running the rollbacks of whatever already
// succeeded, in reverse order, rather than leaving the target database
// half migrated.
func (e *Exporter) applyWithRollback(ctx context.Context, ops []migration.Operation) error {
	applied := make([]migration.Operation, 0, len(ops))
	for i, op := range ops {
		start := time.Now()
		if _, execErr := e.db.ExecContext(ctx, op.SQL); execErr != nil {
			e.logf("  [%d/%d] FAILED: %s\n", i+1, len(ops), truncateSQL(op.SQL, 50))
			e.rollbackApplied(ctx, applied)
			return fmt.Errorf("export: statement %d failed: %w\n  statement: %s", i+1, execErr, truncateSQL(op.SQL, 80))
		}
		e.logf("  [%d/%d] OK: %s (%.2fs)\n", i+1, len(ops), truncateSQL(op.SQL, 50), time.Since(start).Seconds())
		applied = append(applied, op)
	}
	e.logln("\nExport complete.")
	return nil
}

func (e *Exporter) rollbackApplied(ctx context.Context, applied []migration.Operation) {
	if len(applied) == 0 {
		return
	}
	e.logf("  rolling back %d already-applied operation(s)...\n", len(applied))
	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		if op.RollbackSQL == "" {
			e.logf("  no rollback available for: %s\n", truncateSQL(op.SQL, 50))
			continue
		}
		if _, err := e.db.ExecContext(ctx, op.RollbackSQL); err != nil {
			e.logf("  rollback FAILED for %s: %s\n", truncateSQL(op.SQL, 40), err)
			continue
		}
		e.logf("  rolled back: %s\n", truncateSQL(op.SQL, 50))
	}
}
