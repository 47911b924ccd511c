// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-bake/internal/library"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the baked catalog to YAML or JSON",
	Long: `Export writes every book in the catalog, ordered by id, to a YAML or
JSON file.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default: catalog.yaml or catalog.json)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "catalog." + format
	}

	store, err := library.Open(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	var n int
	switch format {
	case "yaml":
		n, err = store.ExportYAML(cmd.Context(), out)
	case "json":
		n, err = store.ExportJSON(cmd.Context(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d books to %s\n", n, out)
	return nil
}
