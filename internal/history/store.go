package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrRunNotFound indicates the requested run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordRun inserts a run and its removals in one transaction and returns
// the assigned run id.
func (s *Store) RecordRun(ctx context.Context, run Run, removals []Removal) (string, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (
                id, started_at, finished_at, directory, nzb_name, category,
                mode, signal, files_scanned, dirs_scanned, candidates,
                removed_files, removed_dirs, reclaimed_mb, errors
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.FinishedAt.UTC().Format(time.RFC3339Nano),
			run.Directory,
			run.NZBName,
			run.Category,
			run.Mode,
			run.Signal,
			run.FilesScanned,
			run.DirsScanned,
			run.Candidates,
			run.RemovedFiles,
			run.RemovedDirs,
			run.ReclaimedMB,
			run.Errors,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, removal := range removals {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO removals (run_id, rel_path, kind, action, size_mb, reasons)
                 VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, removal.RelPath, removal.Kind, removal.Action, removal.SizeMB, joinReasons(removal.Reasons),
			)
			if err != nil {
				return fmt.Errorf("insert removal: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

const runColumns = `id, started_at, finished_at, directory, nzb_name, category,
    mode, signal, files_scanned, dirs_scanned, candidates,
    removed_files, removed_dirs, reclaimed_mb, errors`

func scanRun(scanner interface{ Scan(...any) error }) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt string
	)
	err := scanner.Scan(
		&run.ID, &startedAt, &finishedAt, &run.Directory, &run.NZBName, &run.Category,
		&run.Mode, &run.Signal, &run.FilesScanned, &run.DirsScanned, &run.Candidates,
		&run.RemovedFiles, &run.RemovedDirs, &run.ReclaimedMB, &run.Errors,
	)
	if err != nil {
		return Run{}, err
	}
	if parsed, parseErr := time.Parse(time.RFC3339Nano, startedAt); parseErr == nil {
		run.StartedAt = parsed
	}
	if parsed, parseErr := time.Parse(time.RFC3339Nano, finishedAt); parseErr == nil {
		run.FinishedAt = parsed
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf("SELECT %s FROM runs ORDER BY started_at DESC", runColumns)
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run and its removals.
func (s *Store) GetRun(ctx context.Context, id string) (Run, []Removal, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf("SELECT %s FROM runs WHERE id = ?", runColumns)
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, ErrRunNotFound
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT rel_path, kind, action, size_mb, reasons FROM removals WHERE run_id = ? ORDER BY id", id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query removals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var removals []Removal
	for rows.Next() {
		var (
			removal Removal
			reasons string
		)
		if scanErr := rows.Scan(&removal.RelPath, &removal.Kind, &removal.Action, &removal.SizeMB, &reasons); scanErr != nil {
			return Run{}, nil, fmt.Errorf("scan removal: %w", scanErr)
		}
		removal.Reasons = splitReasons(reasons)
		removals = append(removals, removal)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("iterate removals: %w", err)
	}
	return run, removals, nil
}

// Prune deletes runs that started before cutoff and reports how many were
// removed. Removal rows go with their run via the foreign key cascade.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	ctx = ensureContext(ctx)
	var deleted int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx,
			"DELETE FROM runs WHERE started_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
		if execErr != nil {
			return execErr
		}
		deleted, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return int(deleted), nil
}
