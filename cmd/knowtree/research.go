// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowtree/internal/fetch"
	"github.com/pdiddy/knowtree/internal/research"
	"github.com/pdiddy/knowtree/internal/session"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/internal/websearch"
	"github.com/pdiddy/knowtree/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <topic>",
	Short: "Build a knowledge tree for a topic from live web sources",
	Long: `Research searches the web for a topic, extracts readable text from the
top results, and asks the organizing model to structure the material
into subtopics and key points. The tree is printed and saved as a
session for later expansion.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
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

	numResults, _ := cmd.Flags().GetInt("results")
	if numResults == 0 {
		numResults = cfg.Search.MaxResults
	}

	orch := research.NewOrchestrator(
		websearch.NewClient(backend, logger),
		fetch.NewFetcher(cfg.Fetch, logger),
		builder,
		logger,
	)

	report, err := orch.Run(context.Background(), topic, numResults, os.Stdout)
	if err != nil {
		if errors.Is(err, research.ErrNoResults) {
			fmt.Println("No search results found. Please try a different topic.")
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
		}
		return err
	}
	if report.Degraded {
		fmt.Fprintf(os.Stderr, "warning: tree degraded: %s\n", report.Reason)
	}

	fmt.Println()
	if err := renderTree(cmd, report.Tree); err != nil {
		return err
	}

	noSave, _ := cmd.Flags().GetBool("no-save")
	if noSave {
		return nil
	}

	store, err := session.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := &types.Session{Topic: topic, Tree: report.Tree}
	if err := store.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Printf("\nSession saved: %s\n", sess.ID)
	return nil
}

func renderTree(cmd *cobra.Command, t types.KnowledgeTree) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	yamlOut, _ := cmd.Flags().GetBool("yaml")

	switch {
	case jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case yamlOut:
		data, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		tree.FormatTree(t, os.Stdout)
		return nil
	}
}

func init() {
	researchCmd.Flags().Int("results", 0, "number of search results to use, 1-10 (0 = config default)")
	researchCmd.Flags().Bool("no-save", false, "print the tree without saving a session")
	researchCmd.Flags().Bool("json", false, "output the tree as JSON")
	researchCmd.Flags().Bool("yaml", false, "output the tree as YAML")

	rootCmd.AddCommand(researchCmd)
}
