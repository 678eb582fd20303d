package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/sweep"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		relativePercent int
		imageSamples    bool
		junkExtras      bool
		category        string
	)

	cmd := &cobra.Command{
		Use:         "scan <directory>",
		Short:       "Classify a directory without removing anything",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
				return fmt.Errorf("%s is not a directory", root)
			}

			opts := config.DefaultOptions()
			opts.TestMode = true
			opts.RelativePercent = relativePercent
			opts.ImageSamples = imageSamples
			opts.JunkExtras = junkExtras

			engine := classify.NewEngine(opts, category)
			outcome := sweep.New(root, opts, engine, logging.NewNop()).Run()

			out := cmd.OutOrStdout()
			if len(outcome.Candidates) == 0 {
				fmt.Fprintln(out, "No sample candidates found.")
			} else {
				rows := make([][]string, 0, len(outcome.Candidates))
				for _, candidate := range outcome.Candidates {
					rows = append(rows, []string{
						candidate.RelPath,
						string(candidate.Kind),
						fmt.Sprintf("%.1f", candidate.SizeMB),
						classify.ReasonsString(candidate.Reasons),
					})
				}
				writeRows(out,
					[]string{"Path", "Kind", "Size (MB)", "Reasons"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
			}
			fmt.Fprintf(out, "Checked %d files and %d directories; %d candidates.\n",
				outcome.FilesScanned, outcome.DirsScanned, len(outcome.Candidates))
			return nil
		},
	}

	cmd.Flags().IntVar(&relativePercent, "relative-percent", -1, "Flag videos at or below this percent of the largest video (-1 disables)")
	cmd.Flags().BoolVar(&imageSamples, "image-samples", false, "Also flag sample-named image files")
	cmd.Flags().BoolVar(&junkExtras, "junk-extras", false, "Also flag junk extras (.url, .webloc, readme.txt)")
	cmd.Flags().StringVar(&category, "category", "", "Category used for threshold overrides")
	return cmd
}
