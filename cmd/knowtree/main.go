// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowtree CLI.
// research runs the search -> fetch -> organize pipeline, expand deepens
// one subtopic of a saved session, summarize produces a prose overview,
// and sessions manages the local store.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/knowtree/internal/secrets"
	"github.com/pdiddy/knowtree/internal/textorg"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/internal/websearch"
	"github.com/pdiddy/knowtree/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose    bool
	secretsDir string

	logger *zap.Logger
)

// rootCmd is the base command for the knowtree CLI.
var rootCmd = &cobra.Command{
	Use:   "knowtree",
	Short: "Organize live web research into a knowledge tree",
	Long: `knowtree turns a topic into an organized knowledge tree. It searches the
web, extracts readable text from the top results, and asks a generative
model to structure the material into subtopics and key points.

Trees are saved as sessions: expand deepens one subtopic at a time, and
the sessions subcommands list, search, export, and delete saved work.
summarize produces a prose overview instead of a tree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win over its entries.
		_ = godotenv.Load()

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		if err := secrets.ExportEnv(s); err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./knowtree.yaml or ~/.knowtree/knowtree.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	rootCmd.PersistentFlags().StringVar(&secretsDir, "secrets", ".secrets", "directory of secret files (serp_api_key, google_api_key)")
	rootCmd.PersistentFlags().String("db", "", "session database file (default: ~/.knowtree/sessions.db)")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowtree")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".knowtree"))
		}
	}

	viper.SetEnvPrefix("KNOWTREE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The unprefixed credential names work alongside the KNOWTREE_ forms.
	viper.BindEnv("search.api_key", "KNOWTREE_SEARCH_API_KEY", "SERP_API_KEY")
	viper.BindEnv("ai.api_key", "KNOWTREE_AI_API_KEY", "GOOGLE_API_KEY")

	viper.SetDefault("search.provider", websearch.ProviderSerpAPI)
	viper.SetDefault("search.max_results", 3)
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.workers", 4)
	viper.SetDefault("ai.model", textorg.DefaultModel)
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.tree_temperature", 0.2)
	viper.SetDefault("ai.summary_temperature", 0.3)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("store.path", filepath.Join(home, ".knowtree", "sessions.db"))
	} else {
		viper.SetDefault("store.path", "sessions.db")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the pipeline configuration from viper's resolved
// view of flags, environment, config file, and defaults.
func loadConfig() types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Provider:   viper.GetString("search.provider"),
			MaxResults: viper.GetInt("search.max_results"),
			APIKey:     viper.GetString("search.api_key"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			Workers: viper.GetInt("fetch.workers"),
			Delay:   viper.GetDuration("fetch.delay"),
		},
		AI: types.AIConfig{
			Model:              viper.GetString("ai.model"),
			APIKey:             viper.GetString("ai.api_key"),
			MaxRetries:         viper.GetInt("ai.max_retries"),
			TreeTemperature:    viper.GetFloat64("ai.tree_temperature"),
			SummaryTemperature: viper.GetFloat64("ai.summary_temperature"),
		},
		Store: types.StoreConfig{Path: viper.GetString("store.path")},
	}
}

// newBuilder wires the Gemini backend into a tree builder. The key is
// required up front; the pipeline has no degraded path around a missing
// credential.
func newBuilder(cfg types.Config) (*tree.Builder, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf(
			"Gemini API key not set: export GOOGLE_API_KEY, add it to .env, or place it in %s",
			filepath.Join(secretsDir, "google_api_key"))
	}
	backend := &textorg.GeminiBackend{
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		MaxRetries: cfg.AI.MaxRetries,
	}
	return tree.NewBuilder(backend, cfg.AI, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
