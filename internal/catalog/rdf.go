// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// RDF namespaces used by the Gutenberg catalog.
const (
	nsPG  = "http://www.gutenberg.org/2009/pgterms/"
	nsDC  = "http://purl.org/dc/terms/"
	nsRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Field lookups, evaluated from the document root with first-match semantics.
var (
	languagePath = []step{deep(nsDC, "language"), deep(nsRDF, "value")}
	typePath     = []step{deep(nsDC, "type"), deep(nsRDF, "value")}
	titlePath    = []step{deep(nsDC, "title")}
	authorPath   = []step{deep(nsPG, "agent"), child(nsPG, "name")}
)

var errNoRoot = errors.New("document has no root element")

// ParseRecord decodes one RDF document into a CatalogRecord. It does not
// apply the inclusion filter; see CatalogRecord.Accepted.
func ParseRecord(id int64, data []byte) (types.CatalogRecord, error) {
	root, err := parseTree(data)
	if err != nil {
		return types.CatalogRecord{}, fmt.Errorf("decoding record %d: %w", id, err)
	}

	rec := types.CatalogRecord{
		ID:       id,
		Language: root.find(languagePath).textOrEmpty(),
		Type:     root.find(typePath).textOrEmpty(),
		Title:    normalizeTitle(root.find(titlePath).textOrEmpty()),
		Author:   root.find(authorPath).textOrEmpty(),
	}
	if rec.Author == "" {
		rec.Author = types.UnknownAuthor
	}
	return rec, nil
}

func normalizeTitle(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// node is a minimal element tree. text holds the character data that
// precedes the first child element.
type node struct {
	name     xml.Name
	text     string
	children []*node
}

func (n *node) textOrEmpty() string {
	if n == nil {
		return ""
	}
	return n.text
}

type step struct {
	name xml.Name
	// deep matches any descendant rather than only direct children.
	deep bool
}

func deep(space, local string) step {
	return step{name: xml.Name{Space: space, Local: local}, deep: true}
}

func child(space, local string) step {
	return step{name: xml.Name{Space: space, Local: local}}
}

// find returns the first node in document order reached by steps, or nil.
func (n *node) find(steps []step) *node {
	if n == nil {
		return nil
	}
	if len(steps) == 0 {
		return n
	}
	var found *node
	n.each(steps[0], func(m *node) bool {
		found = m.find(steps[1:])
		return found == nil
	})
	return found
}

// each visits matching nodes in pre-order until fn returns false.
func (n *node) each(s step, fn func(*node) bool) bool {
	for _, c := range n.children {
		if c.name == s.name && !fn(c) {
			return false
		}
		if s.deep && !c.each(s, fn) {
			return false
		}
	}
	return true
}

func parseTree(data []byte) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	// Older records declare ISO-8859-1 or us-ascii.
	d.CharsetReader = charset.NewReaderLabel

	var (
		root  *node
		stack []*node
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, errors.New("multiple root elements")
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(top.children) == 0 {
					top.text += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}
