// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library reads a baked catalog: full-text search over titles and
// authors, lookup by id, consistency checks, and export.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// ErrNotFound is returned when a book id is not in the catalog.
var ErrNotFound = errors.New("book not found")

// Store is a handle on a baked catalog. It never modifies book data.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens the catalog at cfg.DBPath. The file must exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}
	return &Store{db: db, maxResults: maxResults}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of books.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// Get returns the book with the given id.
func (s *Store) Get(ctx context.Context, id int64) (types.BookRow, error) {
	r := types.BookRow{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT title, author FROM books WHERE id = ?`, id,
	).Scan(&r.Title, &r.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BookRow{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.BookRow{}, fmt.Errorf("looking up book %d: %w", id, err)
	}
	return r, nil
}
