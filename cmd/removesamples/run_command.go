package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/history"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/hook"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/nzbget"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the post-processing hook against the host environment",
		Long: "Reads NZBPP_*/NZBPO_* variables from the environment and cleans the " +
			"completed download. The process exit code follows the NZBGet " +
			"post-processing contract: 93 success, 94 error, 95 nothing done.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "[ERROR] Could not load env file %s: %v\n", envFile, err)
					return nzbget.Exit(nzbget.SignalError)
				}
			}

			cfg := ctx.configValue()
			debugValue, _ := os.LookupEnv(config.OptDebug)
			logger, closeLogs := logging.NewFromConfig(cfg, config.Truthy(debugValue))
			defer func() { _ = closeLogs() }()

			var recorder hook.Recorder
			var store *history.Store
			if cfg != nil && cfg.History.Enabled {
				opened, err := history.Open(cfg.HistoryDBPath())
				if err != nil {
					logger.Warn("Run history unavailable", logging.Error(err))
				} else {
					store = opened
					recorder = opened
					defer func() { _ = store.Close() }()
				}
			}

			runner := hook.New(cfg, config.EnvLookup, logger, recorder, nil)
			signal := runner.Run(cmd.Context())

			if store != nil && cfg.History.RetentionDays > 0 {
				cutoff := time.Now().Add(-time.Duration(cfg.History.RetentionDays) * 24 * time.Hour)
				if _, err := store.Prune(cmd.Context(), cutoff); err != nil {
					logger.Warn("Could not prune run history", logging.Error(err))
				}
			}

			return nzbget.Exit(signal)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Load NZBPP_*/NZBPO_* variables from a dotenv file before running")
	return cmd
}
