package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/quarantine"
)

func newQuarantineCommand(ctx *commandContext) *cobra.Command {
	quarantineCmd := &cobra.Command{
		Use:         "quarantine",
		Short:       "Inspect or age out a quarantine subtree",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	quarantineCmd.AddCommand(newQuarantineListCommand())
	quarantineCmd.AddCommand(newQuarantinePurgeCommand())
	return quarantineCmd
}

func newQuarantineListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <directory>",
		Short: "List quarantined entries under a scan root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			entries, err := quarantine.List(root)
			if err != nil {
				return fmt.Errorf("list quarantine: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Quarantine is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			var totalBytes int64
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.RelPath,
					fmt.Sprintf("%.1f", float64(entry.Size)/(1<<20)),
					entry.ModTime.Format("2006-01-02 15:04"),
				})
				totalBytes += entry.Size
			}
			writeRows(out,
				[]string{"Path", "Size (MB)", "Quarantined"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			)
			fmt.Fprintf(out, "%d entries, %.1f MB total.\n", len(entries), float64(totalBytes)/(1<<20))
			return nil
		},
	}
}

func newQuarantinePurgeCommand() *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "purge <directory>",
		Short: "Delete quarantined entries older than the age limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAgeDays <= 0 {
				return fmt.Errorf("--max-age-days must be positive, got %d", maxAgeDays)
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
			result := quarantine.Purge(root, maxAge, time.Now(), logging.NewNop())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Purged %d files, pruned %d directories.\n", result.RemovedFiles, result.PrunedDirs)
			if result.Errors > 0 {
				return fmt.Errorf("%d entries could not be purged", result.Errors)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 7, "Purge entries quarantined longer than this many days")
	return cmd
}
