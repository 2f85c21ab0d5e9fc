// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bic-lab/audiogram-tools/internal/catalog"
	"github.com/bic-lab/audiogram-tools/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List formatting runs recorded in the run catalog",
	Long: `History reads the SQLite catalog written by "format --catalog" and lists
past runs, newest first. With --run it lists that run's reports in
processing order with their subset and outcome.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int64("run", 0, "show the reports of one run")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("catalog")
	if path == "" {
		return fmt.Errorf("--catalog is required")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetInt64("run")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if runID > 0 {
		reports, err := store.Reports(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(os.Stdout, reports)
		}
		printReports(os.Stdout, reports)
		return nil
	}

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, runs)
	}
	printRuns(os.Stdout, runs)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRuns(w io.Writer, runs []catalog.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-20s  %-6s  %-6s  %-6s  %-5s  %-5s  %s\n",
		"Run", "Started", "Frac", "Seed", "Height", "Train", "Val", "Skipped")
	fmt.Fprintln(w, strings.Repeat("-", 76))
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-20s  %-6.2f  %-6d  %-6s  %-5d  %-5d  %d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.TrainFrac, r.Seed,
			r.HeightMode, r.Train, r.Validation, r.Skipped)
	}
}

func printReports(w io.Writer, reports []types.ReportOutcome) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports recorded for this run.")
		return
	}
	fmt.Fprintf(w, "%-30s  %-10s  %-8s  %s\n", "Report", "Split", "Status", "Boxes")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range reports {
		fmt.Fprintf(w, "%-30s  %-10s  %-8s  %d\n", r.ID, r.Split, r.Status, r.Boxes)
	}
}
