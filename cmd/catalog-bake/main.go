// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-bake CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-bake/internal/secrets"
	"github.com/pdiddy/catalog-bake/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the catalog-bake CLI.
var rootCmd = &cobra.Command{
	Use:   "catalog-bake",
	Short: "Bake the Project Gutenberg catalog into a searchable SQLite file",
	Long: `catalog-bake downloads the Project Gutenberg RDF catalog archive, keeps
English-language text works, and writes them into a single SQLite file with a
books table and an FTS5 index over title and author.

Use bake to build the file, then search, show, verify, or export to use it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(viper.GetString("log_level")),
		})))
		if used := viper.ConfigFileUsed(); used != "" {
			slog.Info("using config file", "path", used)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./catalog-bake.yaml or ~/.config/catalog-bake/config.yaml)")
	rootCmd.PersistentFlags().String("db", types.DefaultDBPath, "catalog database file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"db_path":   "db",
		"log_level": "log-level",
	})
	viper.BindEnv("log_level", "CATALOG_BAKE_LOG_LEVEL", "LOG_LEVEL")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-bake")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-bake"))
		}
	}

	viper.SetEnvPrefix("CATALOG_BAKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// bindFlags binds viper keys to the named flags in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// logLevel maps a level name to a slog.Level, defaulting to info.
func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
