// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalogtest builds small RDF catalog archives for tests.
package catalogtest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// InnerName is the tar member name used by the real feed.
const InnerName = "rdf-files.tar"

// Book describes the fields written into a generated RDF document. Empty
// Author or Language omit the corresponding element entirely.
type Book struct {
	ID       int64
	Title    string
	Author   string
	Language string
	Type     string
}

// English returns an accepted English text record.
func English(id int64, title, author string) Book {
	return Book{ID: id, Title: title, Author: author, Language: "en", Type: "Text"}
}

// Member is a single tar entry.
type Member struct {
	Name string
	Body []byte
	Dir  bool
}

// Record returns the member for b at its canonical feed path.
func Record(b Book) Member {
	return Member{
		Name: fmt.Sprintf("cache/epub/%d/pg%d.rdf", b.ID, b.ID),
		Body: []byte(RDF(b)),
	}
}

// Raw returns a member with arbitrary content.
func Raw(name, body string) Member {
	return Member{Name: name, Body: []byte(body)}
}

// RDF renders b as a Gutenberg-style RDF/XML document.
func RDF(b Book) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF xml:base="http://www.gutenberg.org/"
  xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
  xmlns:dcam="http://purl.org/dc/dcam/">
`)
	fmt.Fprintf(&buf, "  <pgterms:ebook rdf:about=\"ebooks/%d\">\n", b.ID)
	if b.Author != "" {
		buf.WriteString("    <dcterms:creator>\n      <pgterms:agent rdf:about=\"2009/agents/1\">\n        <pgterms:name>")
		xml.EscapeText(&buf, []byte(b.Author))
		buf.WriteString("</pgterms:name>\n      </pgterms:agent>\n    </dcterms:creator>\n")
	}
	buf.WriteString("    <dcterms:title>")
	xml.EscapeText(&buf, []byte(b.Title))
	buf.WriteString("</dcterms:title>\n")
	if b.Language != "" {
		buf.WriteString("    <dcterms:language>\n      <rdf:Description rdf:nodeID=\"N1\">\n        <rdf:value rdf:datatype=\"http://purl.org/dc/terms/RFC4646\">")
		xml.EscapeText(&buf, []byte(b.Language))
		buf.WriteString("</rdf:value>\n      </rdf:Description>\n    </dcterms:language>\n")
	}
	if b.Type != "" {
		buf.WriteString("    <dcterms:type>\n      <rdf:Description rdf:nodeID=\"N2\">\n        <dcam:memberOf rdf:resource=\"http://purl.org/dc/terms/DCMIType\"/>\n        <rdf:value>")
		xml.EscapeText(&buf, []byte(b.Type))
		buf.WriteString("</rdf:value>\n      </rdf:Description>\n    </dcterms:type>\n")
	}
	buf.WriteString("  </pgterms:ebook>\n</rdf:RDF>\n")
	return buf.String()
}

// Tar encodes members as an uncompressed tar stream.
func Tar(t testing.TB, members []Member) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range members {
		hdr := &tar.Header{Name: m.Name, Mode: 0o644, Size: int64(len(m.Body)), Typeflag: tar.TypeReg}
		if m.Dir {
			hdr = &tar.Header{Name: m.Name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !m.Dir {
			_, err := tw.Write(m.Body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// WriteZip writes a zip at path containing the given files in order.
func WriteZip(t testing.TB, path string, files ...File) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(f.Body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// File is a zip entry.
type File struct {
	Name string
	Body []byte
}

// WriteArchive writes a feed-shaped archive (zip wrapping one tar) at path.
func WriteArchive(t testing.TB, path string, members []Member) {
	t.Helper()
	WriteZip(t, path,
		File{Name: "README", Body: []byte("catalog")},
		File{Name: InnerName, Body: Tar(t, members)},
	)
}

// Archive returns the bytes of a feed-shaped archive, for serving over HTTP.
func Archive(t testing.TB, members []Member) []byte {
	t.Helper()
	path := t.TempDir() + "/archive.zip"
	WriteArchive(t, path, members)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
