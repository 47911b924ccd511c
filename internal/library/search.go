// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// Query holds parameters for a catalog search.
type Query struct {
	// Text is matched against title and author. Plain words are ANDed
	// and treated as prefixes; Raw passes Text to FTS5 unchanged.
	Text string
	Raw  bool

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// Result is a matching book with its FTS5 rank (lower is better).
type Result struct {
	types.BookRow
	Rank float64 `json:"rank" yaml:"rank"`
}

// Search runs a full-text query over titles and authors, best match first.
// Matching ignores case and word order.
func (s *Store) Search(ctx context.Context, q Query) ([]Result, error) {
	match := q.Text
	if !q.Raw {
		match = MatchExpr(q.Text)
	}
	if match == "" {
		return nil, fmt.Errorf("empty search query")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.title, b.author, books_fts.rank
		FROM books_fts
		JOIN books b ON b.id = books_fts.rowid
		WHERE books_fts MATCH ?
		ORDER BY books_fts.rank, b.id
		LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// MatchExpr turns free text into an FTS5 expression: each run of letters
// and digits becomes a quoted prefix term, so punctuation and operator words
// in user input are never read as query syntax.
func MatchExpr(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, len(words))
	for i, w := range words {
		terms[i] = `"` + w + `"*`
	}
	return strings.Join(terms, " ")
}
