package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lumen/internal/media"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the catalog database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages processed-file tracking backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database. An empty path opens an
// in-memory database whose contents vanish with the process.
func Open(path string) (*Store, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps the in-memory database alive and serializes
	// writers from the watcher loop and the worker pool.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dsn}
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

// Path returns the database location (":memory:" for volatile catalogs).
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
		return fmt.Errorf("%w: database has version %d, expected %d (run 'lumen catalog clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
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

// MarkInFlight claims a source path for processing. It returns false when the
// path is already tracked in any state, which is how the at-most-once
// guarantee holds under concurrent scans.
func (s *Store) MarkInFlight(ctx context.Context, path string, kind media.Kind) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO processed_files (path, kind, state, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		path,
		string(kind),
		StateInFlight,
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("mark in flight: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkDone settles a claimed path as successfully processed.
func (s *Store) MarkDone(ctx context.Context, path, finalPath string) error {
	return s.settle(ctx, path, StateDone, finalPath, "")
}

// MarkFailed settles a claimed path as terminally failed. The path stays
// tracked: liveness over strict correctness.
func (s *Store) MarkFailed(ctx context.Context, path string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return s.settle(ctx, path, StateFailed, "", message)
}

func (s *Store) settle(ctx context.Context, path string, state State, finalPath, message string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE processed_files
         SET state = ?, final_path = ?, error_message = ?, updated_at = ?
         WHERE path = ?`,
		state,
		nullableString(finalPath),
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		path,
	)
	if err != nil {
		return fmt.Errorf("settle %s: %w", state, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settle %s: path %q was never claimed", state, path)
	}
	return nil
}

// Seen reports whether a path is tracked in any state.
func (s *Store) Seen(ctx context.Context, path string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM processed_files WHERE path = ?`, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("seen: %w", err)
	}
	return count > 0, nil
}

// Get fetches a tracked entry, or nil when the path is unknown.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM processed_files WHERE path = ?`, path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns tracked entries filtered by state (or all entries when no
// state is provided), ordered by path for stable output.
func (s *Store) List(ctx context.Context, states ...State) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM processed_files`
	orderClause := ` ORDER BY path`

	if len(states) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(states))
		args := make([]any, len(states))
		for i, state := range states {
			args[i] = state
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE state IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Counts returns a count of tracked files grouped by state.
func (s *Store) Counts(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(1) FROM processed_files GROUP BY state`)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var state State
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return Stats{}, err
		}
		switch state {
		case StateInFlight:
			stats.InFlight = count
		case StateDone:
			stats.Done = count
		case StateFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

// ResetInFlight removes claims left in flight by a previous crash so a durable
// catalog does not permanently suppress files that never settled.
func (s *Store) ResetInFlight(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM processed_files WHERE state = ?`, StateInFlight)
	if err != nil {
		return 0, fmt.Errorf("reset in-flight entries: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all tracked entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM processed_files`)
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = "path, kind, state, final_path, error_message, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		path         string
		kind         string
		state        string
		finalPath    sql.NullString
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(&path, &kind, &state, &finalPath, &errorMessage, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:         path,
		Kind:         media.Kind(kind),
		State:        State(state),
		FinalPath:    finalPath.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
