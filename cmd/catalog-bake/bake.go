// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-bake/internal/pipeline"
	"github.com/pdiddy/catalog-bake/internal/secrets"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

var bakeCmd = &cobra.Command{
	Use:   "bake",
	Short: "Download the catalog archive and build the search database",
	Long: `Bake downloads the RDF catalog archive (unless a nonempty copy is already
cached), streams every record out of it, keeps English-language text works,
and writes them to a fresh SQLite database with an FTS5 index. Any existing
database at the output path is replaced.

A run that does not finish leaves no trustworthy output: rerun it from the top.`,
	Args: cobra.NoArgs,
	RunE: runBake,
}

func init() {
	f := bakeCmd.Flags()
	f.String("url", types.DefaultCatalogURL, "catalog archive URL")
	f.String("archive", types.DefaultArchivePath, "local path of the cached archive")
	f.Bool("refetch", false, "discard the cached archive and download again")
	f.Int("batch-size", types.DefaultBatchSize, "records per insert transaction")
	f.Duration("timeout", types.DefaultTimeout, "HTTP transfer timeout (0 or less uses the default)")
	f.String("user-agent", types.DefaultUserAgent, "HTTP User-Agent header")
	f.Int("progress-every", types.DefaultProgressEvery, "members between progress lines (0 = final only)")
	f.String("report", "", "write a YAML run report to this file")

	bindFlags(f, map[string]string{
		"fetch.url":          "url",
		"fetch.archive_path": "archive",
		"fetch.refetch":      "refetch",
		"fetch.timeout":      "timeout",
		"fetch.user_agent":   "user-agent",
		"index.batch_size":   "batch-size",
		"progress_every":     "progress-every",
		"report":             "report",
	})

	rootCmd.AddCommand(bakeCmd)
}

// bakeConfig resolves the run configuration from flags, environment, and
// config file, in that order of precedence.
func bakeConfig() types.BakeConfig {
	return types.BakeConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			URL:         viper.GetString("fetch.url"),
			ArchivePath: viper.GetString("fetch.archive_path"),
			Refetch:     viper.GetBool("fetch.refetch"),
		},
		Index: types.IndexConfig{
			DBPath:    viper.GetString("db_path"),
			BatchSize: viper.GetInt("index.batch_size"),
		},
		ProgressEvery: viper.GetInt("progress_every"),
	}
}

func runBake(cmd *cobra.Command, args []string) error {
	cfg := bakeConfig()

	client := &http.Client{Timeout: cfg.Fetch.TransferTimeout()}
	report, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{
		Client:      client,
		Credentials: secrets.CatalogCredentials(loadedSecrets),
		Out:         os.Stdout,
		Logger:      slog.Default(),
	})

	if path := viper.GetString("report"); path != "" {
		if werr := report.WriteYAML(path); werr != nil {
			slog.Warn("could not write run report", "path", path, "error", werr)
		}
	}
	return err
}
