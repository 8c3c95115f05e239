package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS points (
    id TEXT PRIMARY KEY,
    symbol_id TEXT NOT NULL,
    qualname TEXT NOT NULL,
    file TEXT NOT NULL,
    kind TEXT NOT NULL,
    hash TEXT NOT NULL,
    docstring TEXT,
    vector BLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_points_symbol ON points(symbol_id);
CREATE INDEX IF NOT EXISTS idx_points_file ON points(file);
`

// SQLiteStore implements Store on a single local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL keeps the collection readable while a sync pass writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (or creates) the vector collection at dbPath,
// creating parent directories as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// applySchema creates the points table if missing and stamps the version
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version >= schemaVersion {
		return nil
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert writes one point per (vector, payload) pair. The point id is
// derived from the payload's symbol id, so re-upserting an existing symbol
// replaces its row.
func (s *SQLiteStore) Upsert(ctx context.Context, vectors [][]float32, payloads []Payload) error {
	if len(vectors) != len(payloads) {
		return ErrLengthMismatch
	}
	if len(vectors) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO points (id, symbol_id, qualname, file, kind, hash, docstring, vector, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			symbol_id = excluded.symbol_id,
			qualname = excluded.qualname,
			file = excluded.file,
			kind = excluded.kind,
			hash = excluded.hash,
			docstring = excluded.docstring,
			vector = excluded.vector,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	for i, p := range payloads {
		_, err := tx.ExecContext(ctx, query,
			PointID(p.SymbolID), p.SymbolID, p.Qualname, p.File, p.Kind, p.Hash,
			p.Docstring, serializeVector(vectors[i]), now)
		if err != nil {
			return fmt.Errorf("failed to upsert point %s: %w", p.SymbolID, err)
		}
	}

	return tx.Commit()
}

// Delete removes points by id. Unknown ids are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, pointIDs []string) error {
	if len(pointIDs) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(pointIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(pointIDs))
	for i, id := range pointIDs {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM points WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// Search returns the k nearest points by cosine similarity, best first
func (s *SQLiteStore) Search(ctx context.Context, vector []float32, k int) ([]ScoredPayload, error) {
	if k <= 0 {
		return []ScoredPayload{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT symbol_id, qualname, file, kind, hash, docstring, vector FROM points")
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	candidates, err := rankCandidates(rows, vector)
	if err != nil {
		return nil, err
	}

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

// ScrollAll returns every payload in the collection without vectors. The
// indexer uses this to reconstruct the symbol-id to hash map; at this
// design's scale a single unbounded read suffices.
func (s *SQLiteStore) ScrollAll(ctx context.Context) ([]Payload, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT symbol_id, qualname, file, kind, hash, docstring FROM points")
	if err != nil {
		return nil, fmt.Errorf("failed to scroll points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payloads []Payload
	for rows.Next() {
		var p Payload
		var docstring sql.NullString
		if err := rows.Scan(&p.SymbolID, &p.Qualname, &p.File, &p.Kind, &p.Hash, &docstring); err != nil {
			return nil, fmt.Errorf("failed to scan payload: %w", err)
		}
		p.Docstring = docstring.String
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}

// Count returns the number of points in the collection
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM points").Scan(&n)
	return n, err
}

// LastUpdated returns the most recent point write time, zero when the
// collection is empty.
func (s *SQLiteStore) LastUpdated(ctx context.Context) (time.Time, error) {
	var ts sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM points").Scan(&ts); err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return ts.Time, nil
}
