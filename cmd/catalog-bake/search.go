// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-bake/internal/library"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over titles and authors",
	Long: `Search matches words against book titles and authors in a baked catalog.
Matching ignores case and word order, and each word also matches as a prefix.
Use --raw to pass an FTS5 query expression through unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a single book by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("raw", false, "treat the query as an FTS5 expression")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.PersistentFlags().Int("max-results", types.DefaultMaxResults, "default maximum number of search results")
	bindFlags(rootCmd.PersistentFlags(), map[string]string{"max_results": "max-results"})

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
}

func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{
		DBPath:     viper.GetString("db_path"),
		MaxResults: viper.GetInt("max_results"),
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	raw, _ := cmd.Flags().GetBool("raw")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := library.Open(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), library.Query{
		Text:  strings.Join(args, " "),
		Raw:   raw,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	return formatSearchOutput(os.Stdout, results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []library.Result, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []library.Result{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-7s  %-60s  %s\n", "ID", "Title", "Author")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range results {
		fmt.Fprintf(w, "%-7d  %-60s  %s\n", r.ID, truncate(r.Title, 60), truncate(r.Author, 30))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	store, err := library.Open(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	book, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Printf("ID:     %d\nTitle:  %s\nAuthor: %s\n", book.ID, book.Title, book.Author)
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
