// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
)

// Report describes the consistency of books and books_fts.
type Report struct {
	Books       int     `json:"books" yaml:"books"`
	Indexed     int     `json:"indexed" yaml:"indexed"`
	MissingFTS  []int64 `json:"missing_fts,omitempty" yaml:"missing_fts,omitempty"`
	OrphanFTS   []int64 `json:"orphan_fts,omitempty" yaml:"orphan_fts,omitempty"`
	IntegrityOK bool    `json:"integrity_ok" yaml:"integrity_ok"`
	Integrity   string  `json:"integrity,omitempty" yaml:"integrity,omitempty"`
}

// OK reports whether the index is in exact 1:1 correspondence with books.
func (r Report) OK() bool {
	return r.Books == r.Indexed && len(r.MissingFTS) == 0 && len(r.OrphanFTS) == 0 && r.IntegrityOK
}

// maxListed caps the ids reported per discrepancy list.
const maxListed = 50

// Verify checks that every book has exactly one index entry and vice versa,
// and that the index content matches the books table.
func (s *Store) Verify(ctx context.Context) (Report, error) {
	var r Report
	var err error

	if r.Books, err = s.Count(ctx); err != nil {
		return r, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM books_fts_docsize`).Scan(&r.Indexed); err != nil {
		return r, fmt.Errorf("counting index entries: %w", err)
	}

	if r.MissingFTS, err = s.ids(ctx, `SELECT id FROM books EXCEPT SELECT id FROM books_fts_docsize ORDER BY 1 LIMIT ?`); err != nil {
		return r, err
	}
	if r.OrphanFTS, err = s.ids(ctx, `SELECT id FROM books_fts_docsize EXCEPT SELECT id FROM books ORDER BY 1 LIMIT ?`); err != nil {
		return r, err
	}

	// integrity-check also compares the index against the external content table.
	if _, err := s.db.ExecContext(ctx, `INSERT INTO books_fts(books_fts) VALUES('integrity-check')`); err != nil {
		r.Integrity = err.Error()
	} else {
		r.IntegrityOK = true
	}

	return r, nil
}

func (s *Store) ids(ctx context.Context, query string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, maxListed)
	if err != nil {
		return nil, fmt.Errorf("comparing ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
