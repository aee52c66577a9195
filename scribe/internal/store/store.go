// Package store is the persistence layer of the scribe knowledge base:
// videos, chunks, and their FTS5 mirrors in one SQLite database.
//
// All multi-statement writes run inside a single transaction so base
// tables and search indexes move in lock-step; on any mid-write failure
// everything rolls back together.
package store

import (
	"database/sql"
	"errors"

	"github.com/hazyhaar/scribe/idgen"
)

// ErrMissingVideoID is returned by StoreVideo when the video metadata
// carries no identifier.
var ErrMissingVideoID = errors.New("store: video_id is required")

// Store wraps the knowledge-base database.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
}

// New creates a Store from an already-opened database connection.
// The schema must have been applied (dbopen.WithSchema(store.Schema)
// or ApplySchema).
func New(db *sql.DB) *Store {
	return &Store{db: db, newID: idgen.Default}
}

// DB exposes the underlying handle for read-only collaborators
// (the search engine runs its scans directly).
func (s *Store) DB() *sql.DB {
	return s.db
}
