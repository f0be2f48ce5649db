package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowtree/internal/websearch"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the web search provider and print the results",
	Long: `Search runs the configured web search provider for a query and prints the
organic results. Useful for checking provider configuration and API keys
without spending model calls.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	cfg := loadConfig()
	backend, err := websearch.NewBackend(cfg.Search)
	if err != nil {
		return err
	}
	client := websearch.NewClient(backend, logger)

	numResults, _ := cmd.Flags().GetInt("results")
	if numResults == 0 {
		numResults = cfg.Search.MaxResults
	}

	results := client.Search(context.Background(), query, numResults)

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		return websearch.FormatJSON(results, os.Stdout)
	}
	websearch.FormatTable(results, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().Int("results", 0, "number of results to request, 1-10 (0 = config default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
