package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tome/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past enrichment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				outcomes, err := store.RunOutcomes(cmd.Context(), runID)
				if err != nil {
					return fmt.Errorf("load run %s: %w", runID, err)
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No outcomes recorded for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					confidence := ""
					if outcome.Confidence > 0 {
						confidence = strconv.FormatFloat(outcome.Confidence, 'f', 2, 64)
					}
					duration := ""
					if outcome.Duration > 0 {
						duration = outcome.Duration.Round(time.Millisecond).String()
					}
					rows = append(rows, []string{
						outcome.Folder, outcome.Outcome, outcome.Title, confidence, duration, outcome.Reason,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Folder", "Outcome", "Title", "Confidence", "Duration", "Reason"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					run.Root,
					yesNo(run.DryRun),
					strconv.Itoa(run.Tasks),
					strconv.Itoa(run.Processed),
					strconv.Itoa(run.Rejected),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Root", "Dry run", "Tasks", "Processed", "Rejected", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Show at most this many runs (0 = all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-folder outcomes of one run")
	return cmd
}
