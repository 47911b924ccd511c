// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-bake/internal/library"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the search index matches the books table",
	Long: `Verify confirms that every book has exactly one FTS5 index entry with the
same id, that no index entry lacks a book, and that the index content matches
the books table.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	store, err := library.Open(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.Verify(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("books:   %d\nindexed: %d\n", r.Books, r.Indexed)
	if len(r.MissingFTS) > 0 {
		fmt.Printf("books without index entry: %v\n", r.MissingFTS)
	}
	if len(r.OrphanFTS) > 0 {
		fmt.Printf("index entries without book: %v\n", r.OrphanFTS)
	}
	if !r.IntegrityOK {
		fmt.Printf("integrity check: %s\n", r.Integrity)
	}

	if !r.OK() {
		return fmt.Errorf("catalog index is inconsistent")
	}
	fmt.Println("ok")
	return nil
}
