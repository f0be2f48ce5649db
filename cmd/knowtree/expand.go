// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowtree/internal/session"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand <subtopic>",
	Short: "Expand one subtopic of a saved session",
	Long: `Expand asks the organizing model for a deeper treatment of one subtopic:
an overview, its major aspects, and examples. The session's saved tree is
the source material; no new web research happens. The expansion is stored
back onto the session, replacing any earlier expansion of the same
subtopic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	subtopic := strings.TrimSpace(strings.Join(args, " "))
	if subtopic == "" {
		return fmt.Errorf("subtopic must not be empty")
	}

	cfg := loadConfig()
	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionID, _ := cmd.Flags().GetString("session")
	var sess *types.Session
	if sessionID != "" {
		sess, err = store.Get(context.Background(), sessionID)
	} else {
		sess, err = store.Latest(context.Background())
	}
	if err != nil {
		return err
	}

	// The saved tree is the expansion's source material.
	treeJSON, err := json.Marshal(sess.Tree)
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}

	fmt.Printf("Expanding %q within %q...\n", subtopic, sess.Topic)
	result := builder.Expand(context.Background(), sess.Topic, subtopic, string(treeJSON))
	if result.Degraded {
		fmt.Fprintf(os.Stderr, "warning: expansion degraded: %s\n", result.Reason)
	}

	fmt.Println()
	tree.FormatExpanded(result.Expansion, os.Stdout)

	if sess.Expansions == nil {
		sess.Expansions = make(map[string]types.ExpandedSubtopic)
	}
	sess.Expansions[subtopic] = result.Expansion
	if err := store.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Printf("\nSession updated: %s\n", sess.ID)
	return nil
}

func init() {
	expandCmd.Flags().String("session", "", "session ID to expand (default: most recently updated)")

	rootCmd.AddCommand(expandCmd)
}
