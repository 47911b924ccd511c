// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the remote catalog archive into the local cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"

	"github.com/pdiddy/catalog-bake/internal/httputil"
	"github.com/pdiddy/catalog-bake/internal/secrets"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

// reportEvery is the byte interval between progress lines.
const reportEvery = 16 << 20

// ErrEmptyArchive is returned when the server answers 2xx with no body.
var ErrEmptyArchive = errors.New("downloaded archive is empty")

// Result describes the outcome of a Fetch.
type Result struct {
	Path    string
	Bytes   int64
	Skipped bool
}

// Fetch makes sure cfg.ArchivePath holds a complete copy of cfg.URL. An
// existing file with nonzero size is reused without touching the network.
// The body is streamed into a temporary file next to the target and renamed
// into place only after the transfer completes; on any failure nothing is
// left at the target path.
func Fetch(ctx context.Context, client *http.Client, cfg types.FetchConfig, creds secrets.Credentials, w io.Writer) (Result, error) {
	path := cfg.ArchivePath
	res := Result{Path: path}

	if cfg.Refetch {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return res, fmt.Errorf("removing cached archive: %w", err)
		}
	}

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		fmt.Fprintf(w, "archive %s already exists (%s), skipping download\n", path, humanize.Bytes(uint64(info.Size())))
		res.Bytes = info.Size()
		res.Skipped = true
		return res, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "downloading %s\n", cfg.URL)

	n, err := download(ctx, client, cfg, creds, path, w)
	if err != nil {
		// A zero-length leftover from an earlier attempt is just as invalid.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, fmt.Errorf("removing partial archive: %w", rmErr))
		}
		return res, fmt.Errorf("fetching %s: %w", cfg.URL, err)
	}

	fmt.Fprintf(w, "download complete: %s\n", humanize.Bytes(uint64(n)))
	res.Bytes = n
	return res, nil
}

func download(ctx context.Context, client *http.Client, cfg types.FetchConfig, creds secrets.Credentials, path string, w io.Writer) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.TransferTimeout())
	defer cancel()

	resp, err := httputil.Get(ctx, client, httputil.Request{
		URL:       cfg.URL,
		UserAgent: cfg.UserAgent,
		Username:  creds.Username,
		Password:  creds.Password,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	pr := &progressReader{r: resp.Body, total: resp.ContentLength, w: w, next: reportEvery}
	if err := atomic.WriteFile(path, pr); err != nil {
		return pr.n, fmt.Errorf("writing archive: %w", err)
	}
	if pr.n == 0 {
		return 0, ErrEmptyArchive
	}
	return pr.n, nil
}

// progressReader counts bytes and periodically reports them to w.
type progressReader struct {
	r     io.Reader
	w     io.Writer
	total int64
	n     int64
	next  int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.n += int64(n)
	if p.n >= p.next {
		p.report()
		p.next = p.n + reportEvery
	}
	return n, err
}

func (p *progressReader) report() {
	if p.total > 0 {
		fmt.Fprintf(p.w, "  %s / %s (%.0f%%)\n",
			humanize.Bytes(uint64(p.n)), humanize.Bytes(uint64(p.total)),
			float64(p.n)*100/float64(p.total))
		return
	}
	fmt.Fprintf(p.w, "  %s\n", humanize.Bytes(uint64(p.n)))
}
