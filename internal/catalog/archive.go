// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog streams catalog records out of the two-layer RDF archive
// (a zip wrapping a single uncompressed tar). Members are read in one forward
// pass without materializing the tar; malformed members are skipped and
// counted, never fatal.
package catalog

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/catalog-bake/pkg/types"
)

// maxRecordSize bounds a single member read. Real records are a few KiB.
const maxRecordSize = 8 << 20

var (
	// ErrNoInnerArchive is returned by Open when the zip has no .tar member.
	ErrNoInnerArchive = errors.New("no .tar member inside archive")

	// ErrConsumed is yielded when Records is ranged over a second time.
	ErrConsumed = errors.New("record stream already consumed")
)

// SkipReason classifies why a member produced no record.
type SkipReason string

const (
	SkipNotRecord SkipReason = "not-record" // wrong extension or not a regular file
	SkipBadName   SkipReason = "bad-name"   // not pg<digits>.rdf
	SkipOversize  SkipReason = "oversize"
	SkipMalformed SkipReason = "malformed" // XML decoding failed
	SkipFiltered  SkipReason = "filtered"  // language/type rejected
)

// Stats counts what a pass over the archive saw.
type Stats struct {
	Members  int                `json:"members" yaml:"members"`
	Accepted int                `json:"accepted" yaml:"accepted"`
	Skipped  map[SkipReason]int `json:"skipped" yaml:"skipped"`
}

// TotalSkipped sums all skip reasons.
func (s Stats) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

func (s Stats) String() string {
	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	var b strings.Builder
	fmt.Fprintf(&b, "%s members, %s accepted", humanize.Comma(int64(s.Members)), humanize.Comma(int64(s.Accepted)))
	for _, r := range reasons {
		fmt.Fprintf(&b, ", %s %s", humanize.Comma(int64(s.Skipped[SkipReason(r)])), r)
	}
	return b.String()
}

// Archive is an opened catalog archive. Its record stream can be consumed
// exactly once.
type Archive struct {
	// ProgressEvery sets how many members pass between progress lines.
	// Zero disables periodic progress.
	ProgressEvery int

	zr       *zip.ReadCloser
	inner    *zip.File
	consumed bool
	stats    Stats
}

// Open opens the zip at path and locates its inner tar by extension.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, innerSuffix) {
			return &Archive{
				ProgressEvery: types.DefaultProgressEvery,
				zr:            zr,
				inner:         f,
				stats:         Stats{Skipped: map[SkipReason]int{}},
			}, nil
		}
	}

	zr.Close()
	return nil, fmt.Errorf("%s: %w", path, ErrNoInnerArchive)
}

// InnerName returns the name of the tar member being streamed.
func (a *Archive) InnerName() string {
	return a.inner.Name
}

// Stats returns the counts accumulated so far.
func (a *Archive) Stats() Stats {
	s := a.stats
	s.Skipped = maps.Clone(a.stats.Skipped)
	return s
}

// Close releases the underlying zip file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Records returns the accepted records as a single-use sequence. Per-member
// problems are counted in Stats and skipped. A non-nil error is yielded only
// for failures of the stream itself (unreadable tar, second pass), after
// which the sequence ends.
func (a *Archive) Records(w io.Writer) iter.Seq2[types.CatalogRecord, error] {
	return func(yield func(types.CatalogRecord, error) bool) {
		if a.consumed {
			yield(types.CatalogRecord{}, ErrConsumed)
			return
		}
		a.consumed = true

		rc, err := a.inner.Open()
		if err != nil {
			yield(types.CatalogRecord{}, fmt.Errorf("opening %s: %w", a.inner.Name, err))
			return
		}
		defer rc.Close()

		fmt.Fprintf(w, "streaming %s\n", a.inner.Name)
		tr := tar.NewReader(rc)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield(types.CatalogRecord{}, fmt.Errorf("reading %s after %d members: %w", a.inner.Name, a.stats.Members, err))
				return
			}

			a.stats.Members++
			rec, reason, err := readMember(tr, hdr)
			if err != nil {
				yield(types.CatalogRecord{}, fmt.Errorf("reading member %s: %w", hdr.Name, err))
				return
			}
			if reason != "" {
				a.stats.Skipped[reason]++
				a.tick(w)
				continue
			}

			a.stats.Accepted++
			a.tick(w)
			if !yield(rec, nil) {
				return
			}
		}
		fmt.Fprintf(w, "  %s\n", a.stats)
	}
}

// tick prints a progress line every ProgressEvery members. It runs after
// the current member has been counted as accepted or skipped.
func (a *Archive) tick(w io.Writer) {
	if a.ProgressEvery > 0 && a.stats.Members%a.ProgressEvery == 0 {
		fmt.Fprintf(w, "  %s\n", a.stats)
	}
}

// readMember turns one tar entry into an accepted record or a skip reason.
// The returned error is reserved for stream read failures.
func readMember(tr *tar.Reader, hdr *tar.Header) (types.CatalogRecord, SkipReason, error) {
	if hdr.Typeflag != tar.TypeReg || !IsRecordName(hdr.Name) {
		return types.CatalogRecord{}, SkipNotRecord, nil
	}

	id, ok := RecordID(hdr.Name)
	if !ok {
		return types.CatalogRecord{}, SkipBadName, nil
	}

	data, err := io.ReadAll(io.LimitReader(tr, maxRecordSize+1))
	if err != nil {
		return types.CatalogRecord{}, "", err
	}
	if len(data) > maxRecordSize {
		return types.CatalogRecord{}, SkipOversize, nil
	}

	rec, err := ParseRecord(id, data)
	if err != nil {
		return types.CatalogRecord{}, SkipMalformed, nil
	}
	if !rec.Accepted() {
		return types.CatalogRecord{}, SkipFiltered, nil
	}
	return rec, "", nil
}
