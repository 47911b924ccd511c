// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults for a bake run against the Project Gutenberg RDF feed.
const (
	DefaultCatalogURL    = "https://www.gutenberg.org/cache/epub/feeds/rdf-files.tar.zip"
	DefaultArchivePath   = "rdf-files.tar.zip"
	DefaultDBPath        = "gutenberg_optimized.db"
	DefaultBatchSize     = 5000
	DefaultTimeout       = 10 * time.Minute
	DefaultUserAgent     = "catalog-bake/0.1"
	DefaultProgressEvery = 10000
	DefaultMaxResults    = 20
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds the whole transfer, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TransferTimeout returns Timeout, or DefaultTimeout when Timeout is not
// positive. A transfer is never unbounded.
func (c HTTPConfig) TransferTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the remote catalog archive.
	URL string `json:"url" yaml:"url"`

	// ArchivePath is the local cache location of the archive. An existing
	// nonzero file at this path is reused as-is.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// Refetch discards the cached archive before fetching.
	Refetch bool `json:"refetch" yaml:"refetch"`
}

// IndexConfig holds settings for the indexing stage.
type IndexConfig struct {
	// DBPath is the output SQLite file. It is deleted and recreated on every run.
	DBPath string `json:"db_path" yaml:"db_path"`

	// BatchSize is the number of records per insert transaction (default 5000).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// BakeConfig groups the stage configurations for one pipeline run.
type BakeConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Index IndexConfig `json:"index" yaml:"index"`

	// ProgressEvery is the number of archive members between progress lines.
	// Zero prints only the final tally.
	ProgressEvery int `json:"progress_every" yaml:"progress_every"`
}

// LibraryConfig holds settings for querying a baked catalog.
type LibraryConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
