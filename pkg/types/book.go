// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the catalog-bake pipeline:
// the transient CatalogRecord decoded from the archive, the persisted BookRow
// projection, and the per-stage configuration structs.
package types

// Inclusion filter values. Only English-language text works are baked.
const (
	AcceptedLanguage = "en"
	AcceptedType     = "Text"

	// UnknownAuthor replaces an empty or missing author.
	UnknownAuthor = "Unknown"
)

// CatalogRecord is one decoded catalog member. Language and Type are only
// used by the inclusion filter and are never persisted.
type CatalogRecord struct {
	// ID is the positive numeric identifier taken from the member name
	// (pg1342.rdf -> 1342).
	ID int64 `json:"id" yaml:"id"`

	// Title is the work title with embedded newlines replaced by spaces.
	Title string `json:"title" yaml:"title"`

	// Author is the first agent name, or UnknownAuthor.
	Author string `json:"author" yaml:"author"`

	Language string `json:"language" yaml:"language"`
	Type     string `json:"type" yaml:"type"`
}

// Accepted reports whether the record passes the inclusion filter.
func (r CatalogRecord) Accepted() bool {
	return r.Language == AcceptedLanguage && r.Type == AcceptedType
}

// Row projects the record onto its persisted form.
func (r CatalogRecord) Row() BookRow {
	return BookRow{ID: r.ID, Title: r.Title, Author: r.Author}
}

// BookRow is the persisted projection of an accepted CatalogRecord. It is
// unique by ID and mirrored 1:1 in the full-text index.
type BookRow struct {
	ID     int64  `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
}
