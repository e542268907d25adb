package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tome/internal/config"
	"tome/internal/logging"
	"tome/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Classify library folders without enriching them",
		Long: `Walk the library tree and show how each folder with audio files would be
classified. No assistant lookups happen and nothing is written; this is the
tool for checking why a folder gets skipped as mixed content.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			scan := scanner.New(nil, logger)
			scan.Limit = limit
			result, err := scan.Scan(cmd.Context(), root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			rows := make([][]string, 0, len(result.Candidates))
			for _, candidate := range result.Candidates {
				verdict := "enrich"
				if candidate.Class == scanner.Mixed {
					verdict = "skip"
				}
				rows = append(rows, []string{
					candidate.Dir,
					scanner.DisplayTitle(filepath.Base(candidate.Dir)),
					strconv.Itoa(len(candidate.AudioFiles)),
					verdict,
					candidate.Rule,
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No folders with audio files under %s\n", root)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Folder", "Title", "Files", "Verdict", "Rule"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d examined, %d to enrich, %d mixed\n",
				result.Examined, len(result.Tasks), len(result.Skips))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after examining this many folders with audio (0 = unlimited)")
	return cmd
}
