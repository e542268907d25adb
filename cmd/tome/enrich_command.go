package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tome/internal/config"
	"tome/internal/enrich"
	"tome/internal/history"
	"tome/internal/journal"
	"tome/internal/logging"
	"tome/internal/preflight"
	"tome/internal/reconcile"
	"tome/internal/runlock"
	"tome/internal/scanner"
	"tome/internal/services/assistant"
	"tome/internal/services/audiobookshelf"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun       bool
		force        bool
		limit        int
		successLimit int
		workers      int
		model        string
	)

	cmd := &cobra.Command{
		Use:   "enrich [root]",
		Short: "Scan the library and write metadata artifacts",
		Long: `Scan the library tree for single-work audiobook folders, look each one up
with the metadata assistant, and write a metadata.json artifact into every
folder whose result clears the confidence threshold.

Examples:
  tome enrich                        # Enrich the configured library
  tome enrich /mnt/audiobooks        # Enrich a specific tree
  tome enrich --dry-run --limit 5    # Preview the first five lookups
  tome enrich --force                # Re-enrich folders that already have artifacts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireAssistant(); err != nil {
				return err
			}
			if workers > 0 {
				cfg.Enrich.Workers = workers
			}
			if trimmed := strings.TrimSpace(model); trimmed != "" {
				cfg.Assistant.Model = trimmed
			}

			root := cfg.Paths.LibraryDir
			if len(args) > 0 {
				root, err = config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve root: %w", err)
				}
			}
			if strings.TrimSpace(root) == "" {
				return fmt.Errorf("no library root: pass one as an argument or set paths.library_dir")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if failures := failedChecks(preflightForRoot(runCtx, cfg, root)); len(failures) > 0 {
				return fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
			}

			lock := runlock.New(cfg.Paths.LogDir)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer lock.Release()

			runID := uuid.NewString()
			startedAt := time.Now()
			sink, err := journal.NewFileSink(filepath.Join(cfg.Paths.LogDir, "journal", runID))
			if err != nil {
				return fmt.Errorf("create journal: %w", err)
			}
			defer sink.Close()

			logger.Info("run starting",
				logging.String("run_id", runID),
				logging.String("root", root),
				logging.Bool("dry_run", dryRun))

			scan := scanner.New(sink, logger)
			scan.Limit = limit
			scan.RunID = runID
			scanResult, err := scan.Scan(runCtx, root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			logger.Info("scan complete",
				logging.Int("examined", scanResult.Examined),
				logging.Int("tasks", len(scanResult.Tasks)),
				logging.Int("skipped", len(scanResult.Skips)))

			var reconciler enrich.Reconciler
			if cfg.Catalog.Enabled && !dryRun {
				r := reconcile.New(audiobookshelf.NewClient(cfg.Catalog), sink, logger)
				r.RunID = runID
				if err := r.Prefetch(runCtx); err != nil {
					logger.Warn("catalog prefetch failed, continuing without reconciliation",
						logging.Error(err))
				} else {
					reconciler = r
				}
			}

			worker := enrich.NewWorker(assistant.NewClient(cfg.Assistant), reconciler, sink, logger)
			worker.RunID = runID
			worker.Force = force
			worker.DryRun = dryRun
			worker.Output = cmd.OutOrStdout()

			executor := enrich.NewExecutor(cfg.Enrich.Workers, logger)
			executor.SuccessLimit = successLimit
			summary := executor.Run(runCtx, scanResult.Tasks, worker.Process)

			run := history.Run{
				ID:          runID,
				StartedAt:   startedAt,
				FinishedAt:  time.Now(),
				Root:        root,
				DryRun:      dryRun,
				Examined:    scanResult.Examined,
				Tasks:       len(scanResult.Tasks),
				Processed:   summary.Processed,
				Rejected:    summary.Rejected,
				Failed:      summary.Failed,
				AlreadyDone: summary.AlreadyDone,
				Errors:      summary.Errors,
			}
			if err := recordRun(cmd, cfg, run, scanResult, summary); err != nil {
				logger.Warn("history record failed", logging.Error(err))
			}

			printRunSummary(cmd, run, scanResult, sink)
			if err := runCtx.Err(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute decisions without writing artifacts or touching the catalog")
	cmd.Flags().BoolVar(&force, "force", false, "Re-enrich folders that already carry a metadata artifact")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop scanning after examining this many folders with audio (0 = unlimited)")
	cmd.Flags().IntVar(&successLimit, "success-limit", 0, "Stop after this many accepted artifacts (0 = unlimited)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker pool width")
	cmd.Flags().StringVar(&model, "model", "", "Override the configured assistant model")
	return cmd
}

func recordRun(cmd *cobra.Command, cfg *config.Config, run history.Run, scanResult scanner.Result, summary enrich.Summary) error {
	store, err := history.Open(cfg.Paths.LogDir)
	if err != nil {
		return err
	}
	defer store.Close()

	outcomes := make([]history.Outcome, 0, len(summary.Results)+len(scanResult.Skips))
	for _, result := range summary.Results {
		outcome := history.Outcome{
			RunID:      run.ID,
			Folder:     result.Task.Dir,
			Outcome:    string(result.Outcome),
			Title:      result.Title,
			Confidence: result.Confidence,
			Duration:   result.Duration,
		}
		if result.Err != nil {
			outcome.Reason = result.Err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	for _, skip := range scanResult.Skips {
		outcomes = append(outcomes, history.Outcome{
			RunID:   run.ID,
			Folder:  skip.Dir,
			Outcome: "skipped",
			Reason:  skip.Reason,
		})
	}
	return store.RecordRun(cmd.Context(), run, outcomes)
}

func printRunSummary(cmd *cobra.Command, run history.Run, scanResult scanner.Result, sink *journal.FileSink) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Examined", strconv.Itoa(run.Examined)},
		{"Tasks", strconv.Itoa(run.Tasks)},
		{"Skipped (mixed)", strconv.Itoa(len(scanResult.Skips))},
		{"Processed", strconv.Itoa(run.Processed)},
		{"Rejected", strconv.Itoa(run.Rejected)},
		{"Failed", strconv.Itoa(run.Failed)},
		{"Already done", strconv.Itoa(run.AlreadyDone)},
		{"Crashed", strconv.Itoa(run.Errors)},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	fmt.Fprintf(out, "Run %s finished in %s (dry run: %s)\n",
		run.ID, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond), yesNo(run.DryRun))
	fmt.Fprintf(out, "Journals: %s\n", filepath.Dir(sink.Path(journal.ChannelProcessed)))
}

func preflightForRoot(ctx context.Context, cfg *config.Config, root string) []preflight.Result {
	scoped := *cfg
	scoped.Paths.LibraryDir = root
	return preflight.RunAll(ctx, &scoped)
}

func failedChecks(results []preflight.Result) []string {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return failures
}
