// Package cache provides the SQLite-backed name-to-identifier cache.
// One row per known document; the cache is the sole writer and entries
// are never auto-deleted; a stale entry is only corrected by a later
// upsert (re-resolution or re-seeding) under the same id.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL DEFAULT 'page',
	path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pages_name ON pages(name);
`

// Entry maps a human-readable name to a store identifier. ID is stored
// dash-less; Kind is "page" or "database"; Path is an advisory breadcrumb.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
}

// DB wraps a sql.DB with cache-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite cache and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cache: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Upsert inserts or replaces the entry with matching id. Entries with an
// empty id or name are rejected.
func (db *DB) Upsert(e Entry) error {
	id := NormalizeID(e.ID)
	if id == "" || e.Name == "" {
		return fmt.Errorf("cache: upsert needs id and name")
	}
	kind := e.Kind
	if kind == "" {
		kind = "page"
	}
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO pages (id, name, kind, path) VALUES (?, ?, ?, ?)`,
		id, e.Name, kind, e.Path)
	if err != nil {
		return fmt.Errorf("cache: upsert %s: %w", id, err)
	}
	return nil
}

// GetByName returns the entry for a name (case-insensitive). When several
// ids share a name, the most recently upserted one wins.
func (db *DB) GetByName(name string) (*Entry, error) {
	row := db.conn.QueryRow(
		`SELECT id, name, kind, path FROM pages WHERE LOWER(name) = LOWER(?) ORDER BY rowid DESC LIMIT 1`,
		name)
	return scanEntry(row)
}

// GetByID returns the entry for a store identifier (dashes ignored).
func (db *DB) GetByID(id string) (*Entry, error) {
	row := db.conn.QueryRow(
		`SELECT id, name, kind, path FROM pages WHERE id = ?`, NormalizeID(id))
	return scanEntry(row)
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Kind, &e.Path); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("cache: scan: %w", err)
	}
	return &e, nil
}

// Search returns entries whose name or path contains query.
func (db *DB) Search(query string) ([]Entry, error) {
	pattern := "%" + query + "%"
	return db.queryEntries(
		`SELECT id, name, kind, path FROM pages WHERE name LIKE ? OR path LIKE ?`,
		pattern, pattern)
}

// All returns every cached entry.
func (db *DB) All() ([]Entry, error) {
	return db.queryEntries(`SELECT id, name, kind, path FROM pages ORDER BY rowid`)
}

func (db *DB) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("cache: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Kind, &e.Path); err != nil {
			return nil, fmt.Errorf("cache: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
