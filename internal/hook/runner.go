package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/history"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/notifications"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/nzbget"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/runlock"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/sweep"
)

// Recorder is the slice of the history store the runner needs. A nil recorder
// disables the ledger.
type Recorder interface {
	RecordRun(ctx context.Context, run history.Run, removals []history.Removal) (string, error)
}

// Runner executes one hook invocation.
type Runner struct {
	cfg      *config.Config
	lookup   config.Lookup
	logger   *slog.Logger
	recorder Recorder
	notifier notifications.Service

	// Now is the run clock. Tests override it.
	Now func() time.Time
}

// New builds a runner. Logger must be non-nil for host runs; nil falls back
// to a no-op logger for tests. Recorder and notifier may be nil.
func New(cfg *config.Config, lookup config.Lookup, logger *slog.Logger, recorder Recorder, notifier notifications.Service) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Runner{
		cfg:      cfg,
		lookup:   lookup,
		logger:   logger,
		recorder: recorder,
		notifier: notifier,
		Now:      time.Now,
	}
}

// Run performs the full invocation and returns the signal for the process
// exit code.
func (r *Runner) Run(ctx context.Context) nzbget.Signal {
	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	logging.Detail(logger, "RemoveSamples processing started")
	signal := r.run(ctx, runID, logger)
	logging.Detail(logger, "RemoveSamples processing finished",
		logging.String(logging.FieldSignal, signal.String()))
	return signal
}

func (r *Runner) run(ctx context.Context, runID string, logger *slog.Logger) nzbget.Signal {
	started := r.Now()

	opts, err := config.ParseOptions(r.lookup)
	if err != nil {
		logger.Error("Configuration error", logging.Error(err))
		r.notifyError(ctx, err, "configuration")
		return nzbget.SignalError
	}

	job := config.ParseJob(r.lookup)
	if job.Directory == "" {
		logger.Error("Configuration error", logging.Error(errors.New("NZBPP_DIRECTORY is not set")))
		return nzbget.SignalError
	}

	if !nzbget.StatusSucceeded(job.Status) {
		logger.Info("Download did not complete successfully; skipping cleanup",
			logging.String("status", job.Status))
		return nzbget.SignalNone
	}

	if info, statErr := os.Stat(job.Directory); statErr != nil || !info.IsDir() {
		logger.Info("Destination directory does not exist; nothing to do",
			logging.String(logging.FieldPath, job.Directory))
		return nzbget.SignalNone
	}

	logger.Info("Processing download",
		logging.String("name", job.Name),
		logging.String(logging.FieldPath, job.Directory),
		logging.String("category", job.Category),
	)
	r.logConfiguration(logger, opts)
	r.logAdvisories(logger, opts, job)

	engine := classify.NewEngine(opts, job.Category)
	if engine.RelativeOverridden() {
		logger.Info("Category threshold override in effect",
			logging.String("category", job.Category),
			logging.Int("relative_percent", engine.RelativePercent()),
		)
	}

	if r.cfg != nil && r.cfg.Lock.Enabled {
		lock := runlock.New(r.cfg.State.Dir, job.Directory)
		if lockErr := lock.Acquire(); lockErr != nil {
			logger.Error("Could not acquire run lock", logging.Error(lockErr))
			r.notifyError(ctx, lockErr, "run lock")
			return nzbget.SignalError
		}
		defer func() { _ = lock.Release() }()
	}

	sweeper := sweep.New(job.Directory, opts, engine, logger)
	sweeper.Now = r.Now
	outcome := sweeper.Run()
	signal := outcome.Signal()

	logger.Info(outcome.Summary())

	r.record(ctx, logger, runID, started, job, outcome, signal)
	r.notify(ctx, job, outcome, signal)

	return signal
}

// logConfiguration emits one debug line mirroring the effective options, so a
// host debug log is enough to reproduce a run.
func (r *Runner) logConfiguration(logger *slog.Logger, opts config.Options) {
	logger.Debug("Effective configuration",
		logging.Bool("remove_files", opts.RemoveFiles),
		logging.Bool("remove_directories", opts.RemoveDirectories),
		logging.Bool("test_mode", opts.TestMode),
		logging.Bool("block_import", opts.BlockImportDuringTest),
		logging.Bool("quarantine_mode", opts.QuarantineMode),
		logging.Int("video_size_limit_mb", opts.VideoSizeLimitMB),
		logging.Int("audio_size_limit_mb", opts.AudioSizeLimitMB),
		logging.Int("relative_percent", opts.RelativePercent),
		logging.Int("quarantine_max_age_days", opts.QuarantineMaxAgeDays),
		logging.Bool("image_samples", opts.ImageSamples),
		logging.Bool("junk_extras", opts.JunkExtras),
		logging.Int("protected_paths", len(opts.ProtectedPaths)),
		logging.Int("deny_patterns", len(opts.DenyPatterns)),
	)
}

// logAdvisories warns about option combinations that are legal but almost
// certainly not what the operator wanted.
func (r *Runner) logAdvisories(logger *slog.Logger, opts config.Options, job config.Job) {
	if opts.TestMode && opts.QuarantineMode {
		logger.Warn("Test mode is on; quarantine mode will not move anything this run")
	}
	if opts.BlockImportDuringTest && !opts.TestMode {
		logger.Warn("Block-import is configured but test mode is off; the import gate never engages")
	}
	percent, _ := opts.EffectiveRelativePercent(job.Category)
	if opts.VideoSizeLimitMB >= 1000 && percent >= 0 && percent <= 5 {
		logger.Warn("Very high video size threshold combined with a very low relative percent; most videos will match the size rule",
			logging.Int("video_size_limit_mb", opts.VideoSizeLimitMB),
			logging.Int("relative_percent", percent),
		)
	}
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, runID string, started time.Time, job config.Job, outcome sweep.Outcome, signal nzbget.Signal) {
	if r.recorder == nil || r.cfg == nil || !r.cfg.History.Enabled {
		return
	}

	run := history.Run{
		ID:           runID,
		StartedAt:    started,
		FinishedAt:   r.Now(),
		Directory:    job.Directory,
		NZBName:      job.Name,
		Category:     job.Category,
		Mode:         string(outcome.Mode),
		Signal:       signal.Code(),
		FilesScanned: outcome.FilesScanned,
		DirsScanned:  outcome.DirsScanned,
		Candidates:   len(outcome.Candidates),
		RemovedFiles: outcome.RemovedFiles,
		RemovedDirs:  outcome.RemovedDirs,
		ReclaimedMB:  outcome.ReclaimedMB,
		Errors:       outcome.Errors,
	}
	removals := make([]history.Removal, 0, len(outcome.Removed))
	for _, removal := range outcome.Removed {
		removals = append(removals, history.Removal{
			RelPath: removal.RelPath,
			Kind:    string(removal.Kind),
			Action:  string(removal.Action),
			SizeMB:  removal.SizeMB,
			Reasons: reasonStrings(removal.Reasons),
		})
	}

	if _, err := r.recorder.RecordRun(ctx, run, removals); err != nil {
		logger.Warn("Could not record run history", logging.Error(err))
	}
}

func reasonStrings(reasons []classify.Reason) []string {
	out := make([]string, len(reasons))
	for i, reason := range reasons {
		out[i] = string(reason)
	}
	return out
}

func (r *Runner) notify(ctx context.Context, job config.Job, outcome sweep.Outcome, signal nzbget.Signal) {
	switch {
	case outcome.GateBlocked:
		_ = r.notifier.NotifyGateBlocked(ctx, job.Name, len(outcome.Candidates))
	case signal == nzbget.SignalSuccess:
		_ = r.notifier.NotifyCleanupCompleted(ctx, job.Name, outcome.RemovedFiles, outcome.RemovedDirs, outcome.ReclaimedMB)
	case signal == nzbget.SignalError:
		r.notifyError(ctx, fmt.Errorf("%d entries failed during cleanup of %s", outcome.Errors, job.Directory), "sweep")
	}
}

func (r *Runner) notifyError(ctx context.Context, err error, label string) {
	if r.notifier == nil {
		return
	}
	_ = r.notifier.NotifyError(ctx, err, label)
}
