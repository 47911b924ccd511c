//go:build mage

// Package main contains Mage build targets for catalog-bake developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "catalog-bake"
	cmdPkg  = "./cmd/catalog-bake"

	// sqliteTags enables FTS5 in mattn/go-sqlite3.
	sqliteTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", sqliteTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with FTS5 enabled.
func Test() error {
	return sh.RunV("go", "test", "-tags", sqliteTags, "./...")
}

// Vet runs go vet with the same build tags as Build.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", sqliteTags, "./...")
}

// Bake builds the CLI and runs a full bake in the working directory.
func Bake() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "bake")
}

// Clean removes the binary and the baked artifacts from the working directory.
func Clean() error {
	for _, p := range []string{binDir, "gutenberg_optimized.db"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}
