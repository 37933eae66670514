package checkpoint

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rowanvale/inkwell/internal/snapshot"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// SQLiteBackend stores checkpoints in a SQLite database, one row per
// checkpoint. Uses WAL mode so listing stays readable while a checkpoint
// is being written.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite checkpoint database at the given
// path. Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1) // Single writer to avoid SQLITE_BUSY errors
	db.SetMaxIdleConns(1) // Keep one connection ready

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Put inserts a checkpoint record. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - snapshots are immutable, so a duplicate id write is a
// repeat of the same record and is silently ignored.
func (b *SQLiteBackend) Put(ctx context.Context, rec Record) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, created_at, label, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.CreatedAt.UnixMilli(),
		rec.Label,
		rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("put checkpoint: %w", err)
	}
	return nil
}

// Get retrieves a checkpoint record by id. Returns ErrNotFound if absent.
func (b *SQLiteBackend) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	var createdAt int64
	err := b.db.QueryRowContext(ctx, `
		SELECT id, created_at, label, payload
		FROM checkpoints
		WHERE id = ?
	`, id).Scan(&rec.ID, &createdAt, &rec.Label, &rec.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get checkpoint %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get checkpoint: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return rec, nil
}

// List returns listing entries for every stored checkpoint, newest first,
// ties broken by ascending id. Never reads payload bytes.
func (b *SQLiteBackend) List(ctx context.Context) ([]snapshot.Entry, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, created_at, label
		FROM checkpoints
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	entries := []snapshot.Entry{}
	for rows.Next() {
		var e snapshot.Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &createdAt, &e.Label); err != nil {
			return nil, fmt.Errorf("scan checkpoint entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoint entries: %w", err)
	}
	return entries, nil
}

// Delete removes a checkpoint by id. Deleting an absent id is a no-op.
func (b *SQLiteBackend) Delete(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	// No incremental migrations yet; future schema changes bump
	// currentSchemaVersion and add steps here.
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}
