// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     store
// Description: SQLite snapshot store
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/snapshots.db",
	}
}

// NewSQLiteStore creates a new SQLite-based snapshot store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg = DefaultSQLiteConfig()
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create directory").
			WithCode(mdwerror.CodeIOError).
			WithOperation("store.NewSQLiteStore").
			WithDetail("path", dir)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.NewSQLiteStore")
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.NewSQLiteStore")
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		separator TEXT NOT NULL,
		comment TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_entries (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save implements Store
func (s *SQLiteStore) Save(ctx context.Context, name string, doc *properties.Document) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := NewSnapshot(name, doc)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, dbError(err, "failed to begin transaction", "store.SQLiteStore.Save")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, path, separator, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID.String(), snap.Name, snap.Path, snap.Separator, snap.Comment, snap.CreatedAt)
	if err != nil {
		return Snapshot{}, dbError(err, "failed to insert snapshot", "store.SQLiteStore.Save")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entries (snapshot_id, position, key, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, dbError(err, "failed to prepare statement", "store.SQLiteStore.Save")
	}
	defer stmt.Close()

	for i, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, snap.ID.String(), i, e.Key, e.Value); err != nil {
			return Snapshot{}, dbError(err, "failed to insert entry", "store.SQLiteStore.Save")
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, dbError(err, "failed to commit transaction", "store.SQLiteStore.Save")
	}
	return snap, nil
}

// Get implements Store
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps, err := s.query(ctx, "store.SQLiteStore.Get", `WHERE id = ?`, id.String())
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, notFound("store.SQLiteStore.Get", id)
	}
	return snaps[0], nil
}

// Latest implements Store
func (s *SQLiteStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps, err := s.query(ctx, "store.SQLiteStore.Latest", `WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, name)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, noSnapshots("store.SQLiteStore.Latest", name)
	}
	return snaps[0], nil
}

// List implements Store
func (s *SQLiteStore) List(ctx context.Context, name string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		return s.query(ctx, "store.SQLiteStore.List", `ORDER BY created_at DESC, rowid DESC`)
	}
	return s.query(ctx, "store.SQLiteStore.List", `WHERE name = ? ORDER BY created_at DESC, rowid DESC`, name)
}

// Restore implements Store
func (s *SQLiteStore) Restore(ctx context.Context, id uuid.UUID) (*properties.Document, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Document(), nil
}

// Delete implements Store
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
	if err != nil {
		return dbError(err, "failed to delete snapshot", "store.SQLiteStore.Delete")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("store.SQLiteStore.Delete", id)
	}
	return nil
}

// Close implements Store
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// query loads snapshot headers matching clause and attaches their entries
func (s *SQLiteStore) query(ctx context.Context, op, clause string, args ...interface{}) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, path, separator, comment, created_at FROM snapshots `+clause, args...)
	if err != nil {
		return nil, dbError(err, "failed to query snapshots", op)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var id string
		if err := rows.Scan(&id, &snap.Name, &snap.Path, &snap.Separator, &snap.Comment, &snap.CreatedAt); err != nil {
			return nil, dbError(err, "failed to scan snapshot", op)
		}
		if snap.ID, err = uuid.Parse(id); err != nil {
			return nil, dbError(err, "invalid snapshot id", op)
		}
		snap.CreatedAt = snap.CreatedAt.UTC()
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read snapshots", op)
	}

	for i := range snaps {
		if snaps[i].Entries, err = s.entries(ctx, op, snaps[i].ID); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

func (s *SQLiteStore) entries(ctx context.Context, op string, id uuid.UUID) ([]properties.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM snapshot_entries WHERE snapshot_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, dbError(err, "failed to query entries", op)
	}
	defer rows.Close()

	entries := []properties.Entry{}
	for rows.Next() {
		var e properties.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, dbError(err, "failed to scan entry", op)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read entries", op)
	}
	return entries, nil
}
