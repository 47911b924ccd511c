// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/catalog-bake/internal/library"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logLevel(tt.in), "logLevel(%q)", tt.in)
	}
}

func TestBakeConfigDefaults(t *testing.T) {
	cfg := bakeConfig()
	assert.Equal(t, types.DefaultCatalogURL, cfg.Fetch.URL)
	assert.Equal(t, types.DefaultArchivePath, cfg.Fetch.ArchivePath)
	assert.Equal(t, types.DefaultTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, types.DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.False(t, cfg.Fetch.Refetch)
	assert.Equal(t, types.DefaultDBPath, cfg.Index.DBPath)
	assert.Equal(t, types.DefaultBatchSize, cfg.Index.BatchSize)
	assert.Equal(t, types.DefaultProgressEvery, cfg.ProgressEvery)
}

func TestBakeConfigEnvOverride(t *testing.T) {
	initConfig()
	t.Setenv("CATALOG_BAKE_FETCH_URL", "https://mirror.example.org/rdf-files.tar.zip")
	t.Setenv("CATALOG_BAKE_FETCH_TIMEOUT", "30s")
	t.Setenv("CATALOG_BAKE_INDEX_BATCH_SIZE", "250")

	cfg := bakeConfig()
	assert.Equal(t, "https://mirror.example.org/rdf-files.tar.zip", cfg.Fetch.URL)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 250, cfg.Index.BatchSize)
}

func TestBakeConfigZeroTimeoutStaysBounded(t *testing.T) {
	initConfig()
	t.Setenv("CATALOG_BAKE_FETCH_TIMEOUT", "0s")

	cfg := bakeConfig()
	assert.Zero(t, cfg.Fetch.Timeout)
	assert.Equal(t, types.DefaultTimeout, cfg.Fetch.TransferTimeout())
}

func TestFormatSearchOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	assert.NoError(t, formatSearchOutput(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	results := []library.Result{{BookRow: types.BookRow{ID: 1342, Title: "Pride and Prejudice", Author: "Austen, Jane"}}}
	assert.NoError(t, formatSearchOutput(&buf, results, false))
	assert.Contains(t, buf.String(), "1342")
	assert.Contains(t, buf.String(), "Austen, Jane")
	assert.Contains(t, buf.String(), "1 results")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Brontë ...", truncate("Brontë sisters", 10))
}
