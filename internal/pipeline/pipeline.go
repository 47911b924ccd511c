// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one bake: fetch the archive, stream its records, and
// index them into a fresh catalog database. Stages run strictly in sequence;
// parsing and indexing interleave record by record in the same goroutine.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-bake/internal/bake"
	"github.com/pdiddy/catalog-bake/internal/catalog"
	"github.com/pdiddy/catalog-bake/internal/fetch"
	"github.com/pdiddy/catalog-bake/internal/secrets"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

// State is a step of the run state machine:
// init → downloading → parsing → indexing → optimizing → compacting → done,
// with failed reachable from every non-terminal state.
type State string

const (
	StateInit        State = "init"
	StateDownloading State = "downloading"
	StateParsing     State = "parsing"
	StateIndexing    State = "indexing"
	StateOptimizing  State = "optimizing"
	StateCompacting  State = "compacting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// RunError records the state a run was in when it failed.
type RunError struct {
	State State
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("bake failed while %s: %v", e.State, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Report summarizes a run. Output from a run whose State is not done must
// be discarded.
type Report struct {
	State    State  `json:"state" yaml:"state"`
	FailedAt State  `json:"failed_at,omitempty" yaml:"failed_at,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`

	ArchivePath  string `json:"archive_path" yaml:"archive_path"`
	ArchiveBytes int64  `json:"archive_bytes" yaml:"archive_bytes"`
	Downloaded   bool   `json:"downloaded" yaml:"downloaded"`
	DBPath       string `json:"db_path" yaml:"db_path"`

	Catalog catalog.Stats `json:"catalog" yaml:"catalog"`
	Index   bake.Summary  `json:"index" yaml:"index"`

	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
}

// Elapsed returns the wall time of the run.
func (r Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// WriteYAML writes the report to path.
func (r Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Options carries the run's collaborators.
type Options struct {
	Client      *http.Client
	Credentials secrets.Credentials

	// Out receives progress lines. Nil discards them.
	Out io.Writer

	// Logger receives state transitions and the failure cause. Nil uses slog.Default.
	Logger *slog.Logger
}

type run struct {
	cfg    types.BakeConfig
	opts   Options
	log    *slog.Logger
	w      io.Writer
	report Report
}

// Run executes one full bake. The returned Report is filled in as far as the
// run got; on failure the error is a *RunError.
func Run(ctx context.Context, cfg types.BakeConfig, opts Options) (Report, error) {
	r := &run{
		cfg:  cfg,
		opts: opts,
		log:  opts.Logger,
		w:    opts.Out,
		report: Report{
			State:       StateInit,
			ArchivePath: cfg.Fetch.ArchivePath,
			DBPath:      cfg.Index.DBPath,
			Started:     time.Now(),
		},
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.w == nil {
		r.w = io.Discard
	}
	if r.opts.Client == nil {
		r.opts.Client = &http.Client{Timeout: cfg.Fetch.TransferTimeout()}
	}

	err := r.execute(ctx)
	r.report.Finished = time.Now()
	if err != nil {
		failedAt := r.report.State
		r.report.FailedAt = failedAt
		r.report.Error = err.Error()
		r.enter(StateFailed)
		r.log.Error("bake failed", "state", failedAt, "error", err)
		return r.report, &RunError{State: failedAt, Err: err}
	}

	r.enter(StateDone)
	r.log.Info("bake complete",
		"books", r.report.Index.Indexed,
		"db", r.report.DBPath,
		"elapsed", r.report.Elapsed().Round(time.Millisecond))
	return r.report, nil
}

func (r *run) enter(s State) {
	r.log.Debug("state transition", "from", r.report.State, "to", s)
	r.report.State = s
}

func (r *run) execute(ctx context.Context) error {
	r.enter(StateDownloading)
	res, err := fetch.Fetch(ctx, r.opts.Client, r.cfg.Fetch, r.opts.Credentials, r.w)
	if err != nil {
		return err
	}
	r.report.ArchiveBytes = res.Bytes
	r.report.Downloaded = !res.Skipped

	r.enter(StateParsing)
	archive, err := catalog.Open(res.Path)
	if err != nil {
		return err
	}
	defer archive.Close()
	archive.ProgressEvery = r.cfg.ProgressEvery

	// The output store is only created once the archive is known to be usable.
	r.enter(StateIndexing)
	ix, err := bake.Create(r.cfg.Index)
	if err != nil {
		return err
	}
	defer ix.Close()

	fmt.Fprintln(r.w, "parsing and indexing...")
	summary, err := ix.Index(ctx, archive.Records(r.w), r.w)
	r.report.Index = summary
	r.report.Catalog = archive.Stats()
	if err != nil {
		return err
	}

	r.enter(StateOptimizing)
	fmt.Fprintln(r.w, "optimizing search index...")
	if err := ix.Optimize(ctx); err != nil {
		return err
	}

	r.enter(StateCompacting)
	fmt.Fprintln(r.w, "compacting database...")
	if err := ix.Compact(ctx); err != nil {
		return err
	}
	if err := ix.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Fprintf(r.w, "done: database saved to %s\n", ix.Path())
	fmt.Fprintf(r.w, "total books indexed: %d\n", summary.Indexed)
	return nil
}
