// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// All returns every book ordered by id.
func (s *Store) All(ctx context.Context) ([]types.BookRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var out []types.BookRow
	for rows.Next() {
		var r types.BookRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Author); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportYAML writes every book to path as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, path string) (int, error) {
	books, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	data, err := yaml.Marshal(books)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	return len(books), os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every book to path as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, path string) (int, error) {
	books, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	if books == nil {
		books = []types.BookRow{}
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}
	return len(books), os.WriteFile(path, data, 0o644)
}
