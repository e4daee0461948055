// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfbinder/internal/journal"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the run journal",
	Long: `History shows the most recent images and merge runs recorded in the
local run journal, newest first, with their outcome and where the result
was saved.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := historyQueryFromFlags(cmd)
	if err != nil {
		return err
	}
	runs, err := store.Recent(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), runs)
	return nil
}

func printRuns(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-6s  %-9s  %5s  %-9s  %s\n",
		"Started", "Kind", "Status", "Pages", "Method", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		where := r.Path
		if where == "" {
			where = r.Error
		} else {
			where = filepath.Base(filepath.Dir(where)) + "/" + filepath.Base(where)
		}
		fmt.Fprintf(w, "%-19s  %-6s  %-9s  %5d  %-9s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Kind, r.Status, r.Pages, r.Method, where)
	}

	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run journal to YAML or JSON on stdout",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := historyQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout(), opts)
	case "json":
		return store.ExportJSON(cmd.Context(), cmd.OutOrStdout(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func openHistoryStore() (*journal.Store, error) {
	cfg := loadConfig()
	if cfg.Journal.Disabled {
		return nil, fmt.Errorf("run journal is disabled (journal.disabled)")
	}
	return journal.Open(cfg.Journal.Path)
}

func historyQueryFromFlags(cmd *cobra.Command) (journal.QueryOptions, error) {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	switch types.RunKind(kind) {
	case "", types.RunImages, types.RunMerge:
	default:
		return journal.QueryOptions{}, fmt.Errorf("unknown kind %q: use images or merge", kind)
	}
	return journal.QueryOptions{Kind: types.RunKind(kind), Limit: limit}, nil
}

func init() {
	historyCmd.PersistentFlags().String("kind", "", "filter by run kind: images or merge")
	historyCmd.PersistentFlags().Int("limit", 0, "maximum runs (0 = default)")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
