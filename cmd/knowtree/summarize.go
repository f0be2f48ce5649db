// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowtree/internal/fetch"
	"github.com/pdiddy/knowtree/internal/research"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/internal/websearch"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <topic>",
	Short: "Write a prose summary of a topic from live web sources",
	Long: `Summarize searches the web for a topic, fetches the top three results one
at a time with a polite pause between requests, and asks the organizing
model for a summary of about 500 words.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}

	cfg := loadConfig()

	backend, err := websearch.NewBackend(cfg.Search)
	if err != nil {
		return err
	}
	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	// Summaries fetch sequentially with a pause between requests.
	fetchCfg := cfg.Fetch
	fetchCfg.Workers = 1
	fetchCfg.Delay = time.Second

	orch := research.NewOrchestrator(
		websearch.NewClient(backend, logger),
		fetch.NewFetcher(fetchCfg, logger),
		builder,
		logger,
	)

	report, err := orch.Summarize(context.Background(), topic, os.Stdout)
	if err != nil {
		if errors.Is(err, research.ErrNoResults) {
			fmt.Println("No search results found. Please try a different topic.")
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
		}
		return err
	}
	if report.Degraded {
		fmt.Fprintf(os.Stderr, "warning: summary degraded: %s\n", report.Reason)
	}

	fmt.Println()
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Summary)
	}
	tree.FormatSummary(report.Summary, os.Stdout)
	return nil
}

func init() {
	summarizeCmd.Flags().Bool("json", false, "output the summary as JSON")

	rootCmd.AddCommand(summarizeCmd)
}
