// Package duckdb is the repository layer over the embedded DuckDB file
// that holds the triage table and its companions. The store is
// single-writer: concurrent pipeline runs must be serialized by the
// caller.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store wraps a DuckDB database handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the DuckDB database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening DuckDB at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging DuckDB at %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing DuckDB database without write access,
// for inspection alongside other readers.
func OpenReadOnly(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("opening DuckDB at %s read-only: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging DuckDB at %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the filesystem path of the database.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing DuckDB at %s: %w", s.path, err)
	}
	return nil
}
