// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bake writes accepted catalog records into a fresh SQLite file: a
// normalized books table plus an FTS5 external-content index over title and
// author, filled from the same batches so the two stay 1:1 by id.
package bake

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// Schema objects. books_fts stores no text of its own; it indexes books.
const (
	BooksTable = "books"
	FTSTable   = "books_fts"
)

var schema = []string{
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY,
		title TEXT,
		author TEXT
	)`,
	`CREATE VIRTUAL TABLE books_fts USING fts5(
		title,
		author,
		content='books',
		content_rowid='id'
	)`,
}

// sidecars are the files SQLite may keep next to the database.
var sidecars = []string{"", "-journal", "-wal", "-shm"}

// Indexer owns the output store for the duration of one run.
type Indexer struct {
	db        *sql.DB
	path      string
	batchSize int
	seen      map[int64]struct{}
}

// Summary holds counts from an Index call.
type Summary struct {
	Indexed    int `json:"indexed" yaml:"indexed"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Batches    int `json:"batches" yaml:"batches"`
}

// Create deletes any existing artifact at cfg.DBPath and creates an empty
// store with the books and books_fts schema.
func Create(cfg types.IndexConfig) (*Indexer, error) {
	path := cfg.DBPath
	for _, suffix := range sidecars {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing previous output %s: %w", path+suffix, err)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// The store has exactly one writer.
	db.SetMaxOpenConns(1)

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = types.DefaultBatchSize
	}

	ix := &Indexer{
		db:        db,
		path:      path,
		batchSize: batchSize,
		seen:      make(map[int64]struct{}),
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return ix, nil
}

// Path returns the output file.
func (ix *Indexer) Path() string {
	return ix.path
}

// Close releases the database connection.
func (ix *Indexer) Close() error {
	return ix.db.Close()
}

// Index drains records into the store in batches of the configured size,
// committing each batch before the next is started and flushing the final
// partial batch. A record whose id was already indexed is counted as a
// duplicate and dropped. An error yielded by records aborts the run.
func (ix *Indexer) Index(ctx context.Context, records iter.Seq2[types.CatalogRecord, error], w io.Writer) (Summary, error) {
	var summary Summary
	batch := make([]types.BookRow, 0, ix.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.insertBatch(ctx, batch); err != nil {
			return fmt.Errorf("writing batch %d: %w", summary.Batches+1, err)
		}
		summary.Batches++
		summary.Indexed += len(batch)
		fmt.Fprintf(w, "  committed batch %d (%s books total)\n", summary.Batches, humanize.Comma(int64(summary.Indexed)))
		batch = batch[:0]
		return nil
	}

	for rec, err := range records {
		if err != nil {
			return summary, err
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if _, dup := ix.seen[rec.ID]; dup {
			summary.Duplicates++
			continue
		}
		ix.seen[rec.ID] = struct{}{}

		batch = append(batch, rec.Row())
		if len(batch) >= ix.batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}

	if err := flush(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (ix *Indexer) insertBatch(ctx context.Context, rows []types.BookRow) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	books, err := tx.PrepareContext(ctx, `INSERT INTO books (id, title, author) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing books insert: %w", err)
	}
	defer books.Close()

	fts, err := tx.PrepareContext(ctx, `INSERT INTO books_fts (rowid, title, author) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer fts.Close()

	for _, r := range rows {
		if _, err := books.ExecContext(ctx, r.ID, r.Title, r.Author); err != nil {
			return fmt.Errorf("inserting book %d: %w", r.ID, err)
		}
		if _, err := fts.ExecContext(ctx, r.ID, r.Title, r.Author); err != nil {
			return fmt.Errorf("indexing book %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Optimize merges the FTS5 index segments into one.
func (ix *Indexer) Optimize(ctx context.Context) error {
	if _, err := ix.db.ExecContext(ctx, `INSERT INTO books_fts(books_fts) VALUES('optimize')`); err != nil {
		return fmt.Errorf("optimizing search index: %w", err)
	}
	return nil
}

// Compact rewrites the database file with VACUUM. It runs in autocommit
// mode; Index never leaves a transaction open.
func (ix *Indexer) Compact(ctx context.Context) error {
	if _, err := ix.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("compacting database: %w", err)
	}
	return nil
}
