package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded cleaning runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded.")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						run.NZBName,
						run.Mode,
						fmt.Sprintf("%d", run.Signal),
						fmt.Sprintf("%d/%d", run.RemovedFiles, run.RemovedDirs),
						fmt.Sprintf("%.1f", run.ReclaimedMB),
					})
				}
				writeRows(out,
					[]string{"ID", "Started", "Download", "Mode", "Exit", "Removed", "MB"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with every removed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, removals, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s\n", run.ID)
				fmt.Fprintf(out, "  Started:   %s\n", run.StartedAt.Local().Format(time.RFC1123))
				fmt.Fprintf(out, "  Download:  %s (category %q)\n", run.NZBName, run.Category)
				fmt.Fprintf(out, "  Directory: %s\n", run.Directory)
				fmt.Fprintf(out, "  Mode:      %s, exit %d\n", run.Mode, run.Signal)
				fmt.Fprintf(out, "  Checked:   %d files, %d dirs; %d candidates\n",
					run.FilesScanned, run.DirsScanned, run.Candidates)
				fmt.Fprintf(out, "  Removed:   %d files, %d dirs (%.1f MB), %d errors\n",
					run.RemovedFiles, run.RemovedDirs, run.ReclaimedMB, run.Errors)

				if len(removals) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(removals))
				for _, removal := range removals {
					rows = append(rows, []string{
						removal.RelPath,
						removal.Kind,
						removal.Action,
						fmt.Sprintf("%.1f", removal.SizeMB),
						strings.Join(removal.Reasons, ","),
					})
				}
				writeRows(out,
					[]string{"Path", "Kind", "Action", "Size (MB)", "Reasons"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				return nil
			})
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				days := retentionDays
				if days <= 0 {
					days = ctx.configValue().History.RetentionDays
				}
				cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
				pruned, err := store.Prune(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs older than %d days.\n", pruned, days)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Override the configured retention window")
	return cmd
}
