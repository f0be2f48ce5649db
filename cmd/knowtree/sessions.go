// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowtree/internal/session"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/pkg/types"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved research sessions (list, show, search, export, delete)",
	Long: `Sessions manages the local store of research runs. Each session holds a
topic, its knowledge tree, and any subtopic expansions made against it.`,
}

// --- list subcommand ---

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recently updated first",
	RunE:  runSessionsList,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(loadConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	infos, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	printSessionTable(infos, "No sessions saved.")
	return nil
}

// --- show subcommand ---

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session's tree and expansions (default: most recent)",
	RunE:  runSessionsShow,
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(loadConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := sessionByArg(store, args)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s  (updated %s)\n\n", sess.ID, sess.UpdatedAt.Local().Format("2006-01-02 15:04"))
	tree.FormatTree(sess.Tree, os.Stdout)

	if len(sess.Expansions) > 0 {
		names := make([]string, 0, len(sess.Expansions))
		for name := range sess.Expansions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println()
			tree.FormatExpanded(sess.Expansions[name], os.Stdout)
		}
	}
	return nil
}

// --- search subcommand ---

var sessionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across saved sessions",
	Long: `Search matches a query against session topics and tree content, ranked
by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSessionsSearch,
}

func runSessionsSearch(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(loadConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	infos, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	printSessionTable(infos, "No matching sessions.")
	return nil
}

// --- export subcommand ---

var sessionsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a session as YAML or JSON (default: most recent)",
	RunE:  runSessionsExport,
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(loadConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := sessionByArg(store, args)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	w := io.Writer(os.Stdout)
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		err = session.WriteYAML(w, sess)
	case "json":
		err = session.WriteJSON(w, sess)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	if out != "" {
		fmt.Printf("Exported session %s to %s\n", sess.ID, out)
	}
	return nil
}

// --- delete subcommand ---

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session and its expansions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(loadConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}

// --- shared helpers ---

// sessionByArg loads the session named by the first positional argument,
// or the most recently updated session when no argument is given.
func sessionByArg(store *session.Store, args []string) (*types.Session, error) {
	if len(args) > 0 {
		return store.Get(context.Background(), args[0])
	}
	return store.Latest(context.Background())
}

func printSessionTable(infos []session.Info, emptyMsg string) {
	if len(infos) == 0 {
		fmt.Println(emptyMsg)
		return
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10s  %s\n", "ID", "Topic", "Expansions", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 108))

	for _, info := range infos {
		topic := info.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10d  %s\n",
			info.ID, topic, info.Expansions, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d sessions\n", len(infos))
}

func init() {
	sessionsListCmd.Flags().Int("limit", 0, "maximum sessions to list (0 = default)")
	sessionsSearchCmd.Flags().Int("limit", 0, "maximum results (0 = default)")
	sessionsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	sessionsExportCmd.Flags().String("out", "", "write to a file instead of stdout")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	rootCmd.AddCommand(sessionsCmd)
}
