// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/catalog-bake/internal/catalog/catalogtest"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name     string
		book     catalogtest.Book
		want     types.CatalogRecord
		accepted bool
	}{
		{
			name:     "english text",
			book:     catalogtest.English(1342, "Pride and Prejudice", "Austen, Jane"),
			want:     types.CatalogRecord{ID: 1342, Title: "Pride and Prejudice", Author: "Austen, Jane", Language: "en", Type: "Text"},
			accepted: true,
		},
		{
			name:     "missing author defaults to Unknown",
			book:     catalogtest.English(10, "Anonymous Ballads", ""),
			want:     types.CatalogRecord{ID: 10, Title: "Anonymous Ballads", Author: "Unknown", Language: "en", Type: "Text"},
			accepted: true,
		},
		{
			name:     "newlines in title become spaces",
			book:     catalogtest.English(11, "Alice's Adventures\nin Wonderland", "Carroll, Lewis"),
			want:     types.CatalogRecord{ID: 11, Title: "Alice's Adventures in Wonderland", Author: "Carroll, Lewis", Language: "en", Type: "Text"},
			accepted: true,
		},
		{
			name:     "escaped markup in title",
			book:     catalogtest.English(12, "Tom & Jerry <Collected>", "Someone"),
			want:     types.CatalogRecord{ID: 12, Title: "Tom & Jerry <Collected>", Author: "Someone", Language: "en", Type: "Text"},
			accepted: true,
		},
		{
			name: "french is rejected",
			book: catalogtest.Book{ID: 13, Title: "Les Misérables", Author: "Hugo, Victor", Language: "fr", Type: "Text"},
			want: types.CatalogRecord{ID: 13, Title: "Les Misérables", Author: "Hugo, Victor", Language: "fr", Type: "Text"},
		},
		{
			name: "sound is rejected",
			book: catalogtest.Book{ID: 14, Title: "Reading", Author: "Reader", Language: "en", Type: "Sound"},
			want: types.CatalogRecord{ID: 14, Title: "Reading", Author: "Reader", Language: "en", Type: "Sound"},
		},
		{
			name: "missing language is rejected",
			book: catalogtest.Book{ID: 15, Title: "Untagged", Author: "A", Type: "Text"},
			want: types.CatalogRecord{ID: 15, Title: "Untagged", Author: "A", Type: "Text"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.book.ID, []byte(catalogtest.RDF(tt.book)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.accepted, got.Accepted())
		})
	}
}

func TestParseRecordFirstMatch(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rdf:RDF xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <pgterms:ebook>
    <dcterms:creator><pgterms:agent><pgterms:name>First, Author</pgterms:name></pgterms:agent></dcterms:creator>
    <dcterms:creator><pgterms:agent><pgterms:name>Second, Author</pgterms:name></pgterms:agent></dcterms:creator>
    <dcterms:title>Primary Title</dcterms:title>
    <dcterms:title>Other Title</dcterms:title>
    <dcterms:language><rdf:Description></rdf:Description></dcterms:language>
    <dcterms:language><rdf:Description><rdf:value>en</rdf:value></rdf:Description></dcterms:language>
    <dcterms:language><rdf:Description><rdf:value>de</rdf:value></rdf:Description></dcterms:language>
    <dcterms:type><rdf:Description><rdf:value>Text</rdf:value></rdf:Description></dcterms:type>
  </pgterms:ebook>
</rdf:RDF>`

	got, err := ParseRecord(99, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "First, Author", got.Author)
	assert.Equal(t, "Primary Title", got.Title)
	assert.Equal(t, "en", got.Language, "a language element without a value falls through to the next one")
	assert.True(t, got.Accepted())
}

func TestParseRecordAgentNameMustBeDirectChild(t *testing.T) {
	doc := `<rdf:RDF xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <pgterms:ebook>
    <dcterms:creator><pgterms:agent><pgterms:alias><pgterms:name>Nested</pgterms:name></pgterms:alias></pgterms:agent></dcterms:creator>
    <dcterms:title>T</dcterms:title>
  </pgterms:ebook>
</rdf:RDF>`

	got, err := ParseRecord(1, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, types.UnknownAuthor, got.Author)
}

func TestParseRecordWrongNamespaceIgnored(t *testing.T) {
	doc := `<rdf:RDF xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <dc:title>Legacy Title</dc:title>
</rdf:RDF>`

	got, err := ParseRecord(1, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
	assert.False(t, got.Accepted())
}

func TestParseRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unclosed element", `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><a>`},
		{"mismatched tags", `<a><b></a></b>`},
		{"empty", ``},
		{"not xml", `{"title": "json"}`},
		{"two roots", `<a/><b/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(1, []byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseRecordDeclaredCharset(t *testing.T) {
	doc := func(encoding, author string) []byte {
		return []byte(`<?xml version="1.0" encoding="` + encoding + `"?>
<rdf:RDF xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <pgterms:ebook rdf:about="ebooks/135">
    <dcterms:creator><pgterms:agent><pgterms:name>` + author + `</pgterms:name></pgterms:agent></dcterms:creator>
    <dcterms:title>Les Miserables</dcterms:title>
    <dcterms:language><rdf:Description><rdf:value>en</rdf:value></rdf:Description></dcterms:language>
    <dcterms:type><rdf:Description><rdf:value>Text</rdf:value></rdf:Description></dcterms:type>
  </pgterms:ebook>
</rdf:RDF>
`)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"latin-1", doc("ISO-8859-1", "Hugo, Victor Marie \xe9"), "Hugo, Victor Marie é"},
		{"us-ascii", doc("us-ascii", "Hugo, Victor"), "Hugo, Victor"},
		{"utf-8", doc("UTF-8", "Hugo, Victor Marie é"), "Hugo, Victor Marie é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(135, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Author)
			assert.True(t, rec.Accepted())
		})
	}
}
