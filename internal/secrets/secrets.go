// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: catalog-username, catalog-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key names understood by the fetch stage.
const (
	CatalogUsername = "catalog-username"
	CatalogPassword = "catalog-password"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Credentials is a username/password pair for an authenticated catalog mirror.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no username is set.
func (c Credentials) IsZero() bool {
	return c.Username == ""
}

// CatalogCredentials extracts the catalog mirror credentials from a loaded
// secrets map. A password without a username is ignored.
func CatalogCredentials(s map[string]string) Credentials {
	user := s[CatalogUsername]
	if user == "" {
		return Credentials{}
	}
	return Credentials{Username: user, Password: s[CatalogPassword]}
}
