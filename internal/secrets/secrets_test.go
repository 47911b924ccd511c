// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, CatalogUsername, "  reader  \n")
				writeFile(t, dir, CatalogPassword, "s3cret\n")
				return dir
			},
			want: map[string]string{
				CatalogUsername: "reader",
				CatalogPassword: "s3cret",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, CatalogUsername, "reader")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{CatalogUsername: "reader"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, CatalogPassword, "pw")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{CatalogPassword: "pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogCredentials(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want Credentials
	}{
		{"none", map[string]string{}, Credentials{}},
		{"user and password", map[string]string{CatalogUsername: "u", CatalogPassword: "p"}, Credentials{Username: "u", Password: "p"}},
		{"user only", map[string]string{CatalogUsername: "u"}, Credentials{Username: "u"}},
		{"password without user is ignored", map[string]string{CatalogPassword: "p"}, Credentials{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CatalogCredentials(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Username == "", got.IsZero())
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
