package sweep

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/fileutil"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/quarantine"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/scan"
)

// Sweeper executes one classify-then-act pass over a scan root.
type Sweeper struct {
	root   string
	opts   config.Options
	engine *classify.Engine
	logger *slog.Logger

	// Now is the clock used by quarantine aging. Tests override it.
	Now func() time.Time
}

// New builds a sweeper. The scan root itself is exempt from classification:
// the hook never deletes the directory it was asked to clean, even when the
// release itself is named "Sample".
func New(root string, opts config.Options, engine *classify.Engine, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sweeper{
		root:   root,
		opts:   opts,
		engine: engine,
		logger: logger,
		Now:    time.Now,
	}
}

type dirCandidate struct {
	Candidate
	depth int
}

// Run performs the full pass: scan, classify, gate-check, act, age out the
// quarantine. It never aborts on per-entry failures; they are counted and
// reported through the outcome signal.
func (s *Sweeper) Run() Outcome {
	outcome := Outcome{
		Mode:            s.mode(),
		RelativePercent: s.engine.RelativePercent(),
	}

	tree := scan.Walk(s.root, s.opts.VideoExtensions, []string{quarantine.DirName}, s.logger)
	outcome.FilesScanned = len(tree.Files)
	outcome.DirsScanned = len(tree.Dirs)
	outcome.Errors += tree.Errors
	s.engine.SetLargestVideo(tree.LargestVideoBytes)

	dirCandidates, fileCandidates := s.classify(tree)
	for _, c := range dirCandidates {
		outcome.Candidates = append(outcome.Candidates, c.Candidate)
	}
	for _, c := range fileCandidates {
		outcome.Candidates = append(outcome.Candidates, c)
	}

	if s.opts.TestMode && s.opts.BlockImportDuringTest && len(outcome.Candidates) > 0 {
		s.logger.Info("Block-import is on with candidates present; reporting failure to prevent import, nothing removed")
		outcome.GateBlocked = true
		return outcome
	}

	s.actDirs(dirCandidates, &outcome)
	s.actFiles(fileCandidates, &outcome)

	if !s.opts.TestMode && s.opts.QuarantineMode && s.opts.QuarantineMaxAgeDays > 0 {
		maxAge := time.Duration(s.opts.QuarantineMaxAgeDays) * 24 * time.Hour
		result := quarantine.Purge(s.root, maxAge, s.Now(), s.logger)
		outcome.Errors += result.Errors
	}

	return outcome
}

func (s *Sweeper) mode() Mode {
	switch {
	case s.opts.TestMode:
		return ModeTest
	case s.opts.QuarantineMode:
		return ModeLiveQuarantine
	default:
		return ModeLive
	}
}

func (s *Sweeper) classify(tree scan.Tree) ([]dirCandidate, []Candidate) {
	var dirs []dirCandidate
	for _, dir := range tree.Dirs {
		verdict := s.engine.Dir(dir.RelPath)
		if verdict.Protected {
			s.logger.Debug("protected directory", logging.String(logging.FieldPath, dir.RelPath))
			continue
		}
		if !verdict.Sample {
			continue
		}
		size := fileutil.DirSize(filepath.Join(s.root, filepath.FromSlash(dir.RelPath)))
		dirs = append(dirs, dirCandidate{
			Candidate: Candidate{
				RelPath: dir.RelPath,
				Kind:    KindDir,
				SizeMB:  classify.MB(size),
				Reasons: verdict.Reasons,
			},
			depth: dir.Depth,
		})
		s.logger.Debug("candidate directory", logging.String(logging.FieldPath, dir.RelPath))
	}

	var files []Candidate
	for _, file := range tree.Files {
		verdict := s.engine.File(file.RelPath, file.Size, file.SizeKnown)
		if verdict.Protected {
			s.logger.Debug("protected file", logging.String(logging.FieldPath, file.RelPath))
			continue
		}
		if !verdict.Sample {
			continue
		}
		files = append(files, Candidate{
			RelPath: file.RelPath,
			Kind:    KindFile,
			SizeMB:  classify.MB(file.Size),
			Reasons: verdict.Reasons,
		})
		s.logger.Debug("candidate file",
			logging.String(logging.FieldPath, file.RelPath),
			logging.Float64("size_mb", classify.MB(file.Size)),
			logging.String(logging.FieldReasons, classify.ReasonsString(verdict.Reasons)),
		)
	}
	return dirs, files
}

func (s *Sweeper) actDirs(candidates []dirCandidate, outcome *Outcome) {
	if !s.opts.RemoveDirectories {
		if len(candidates) > 0 {
			s.logger.Debug("configured to keep directories")
		}
		return
	}

	// Deepest first by path-segment depth, not name length.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].depth > candidates[j].depth
	})

	for _, candidate := range candidates {
		absPath := filepath.Join(s.root, filepath.FromSlash(candidate.RelPath))
		if _, err := os.Lstat(absPath); os.IsNotExist(err) {
			// A deeper pass already removed it together with its parent.
			continue
		}

		if s.opts.TestMode {
			s.logger.Info("[TEST] Would remove directory", logging.String(logging.FieldPath, candidate.RelPath))
			continue
		}

		if s.opts.QuarantineMode {
			if s.quarantineDir(candidate, outcome) {
				outcome.RemovedDirs++
				outcome.ReclaimedMB += candidate.SizeMB
				outcome.Removed = append(outcome.Removed, Removal{Candidate: candidate.Candidate, Action: ActionQuarantined})
			}
			continue
		}

		if err := os.RemoveAll(absPath); err != nil {
			outcome.Errors++
			s.logger.Error("Failed to remove directory", logging.String(logging.FieldPath, candidate.RelPath), logging.Error(err))
			continue
		}
		outcome.RemovedDirs++
		outcome.ReclaimedMB += candidate.SizeMB
		outcome.Removed = append(outcome.Removed, Removal{Candidate: candidate.Candidate, Action: ActionDeleted})
		s.logger.Info("Removed directory", logging.String(logging.FieldPath, candidate.RelPath))
	}
}

// quarantineDir moves every file under the candidate into the quarantine
// subtree, then prunes the emptied original tree. Reports whether anything
// was moved.
func (s *Sweeper) quarantineDir(candidate dirCandidate, outcome *Outcome) bool {
	absPath := filepath.Join(s.root, filepath.FromSlash(candidate.RelPath))
	movedAny := false

	_ = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			outcome.Errors++
			s.logger.Error("Quarantine move failed", logging.String(logging.FieldPath, path), logging.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			outcome.Errors++
			return nil
		}
		if moveErr := quarantine.MoveFile(s.root, filepath.ToSlash(rel)); moveErr != nil {
			outcome.Errors++
			s.logger.Error("Quarantine move failed", logging.String(logging.FieldPath, filepath.ToSlash(rel)), logging.Error(moveErr))
			return nil
		}
		movedAny = true
		return nil
	})

	if err := os.RemoveAll(absPath); err != nil {
		outcome.Errors++
		s.logger.Error("Failed to remove emptied directory", logging.String(logging.FieldPath, candidate.RelPath), logging.Error(err))
	}
	if movedAny {
		s.logger.Info("Quarantined directory contents", logging.String(logging.FieldPath, candidate.RelPath))
	}
	return movedAny
}

func (s *Sweeper) actFiles(candidates []Candidate, outcome *Outcome) {
	if !s.opts.RemoveFiles {
		if len(candidates) > 0 {
			s.logger.Debug("configured to keep files")
		}
		return
	}

	for _, candidate := range candidates {
		absPath := filepath.Join(s.root, filepath.FromSlash(candidate.RelPath))
		// A directory removal earlier in this pass may have taken the file
		// with it.
		if _, err := os.Lstat(absPath); os.IsNotExist(err) {
			s.logger.Debug("candidate already gone", logging.String(logging.FieldPath, candidate.RelPath))
			continue
		}

		if s.opts.TestMode {
			s.logger.Info("[TEST] Would remove file",
				logging.String(logging.FieldPath, candidate.RelPath),
				logging.Float64("size_mb", candidate.SizeMB),
			)
			continue
		}

		if s.opts.QuarantineMode {
			if err := quarantine.MoveFile(s.root, candidate.RelPath); err != nil {
				outcome.Errors++
				s.logger.Error("Quarantine move failed", logging.String(logging.FieldPath, candidate.RelPath), logging.Error(err))
				continue
			}
			outcome.RemovedFiles++
			outcome.ReclaimedMB += candidate.SizeMB
			outcome.Removed = append(outcome.Removed, Removal{Candidate: candidate, Action: ActionQuarantined})
			s.logger.Info("Quarantined file",
				logging.String(logging.FieldPath, candidate.RelPath),
				logging.Float64("size_mb", candidate.SizeMB),
			)
			continue
		}

		if err := os.Remove(absPath); err != nil {
			outcome.Errors++
			s.logger.Error("Failed to remove file", logging.String(logging.FieldPath, candidate.RelPath), logging.Error(err))
			continue
		}
		outcome.RemovedFiles++
		outcome.ReclaimedMB += candidate.SizeMB
		outcome.Removed = append(outcome.Removed, Removal{Candidate: candidate, Action: ActionDeleted})
		s.logger.Info("Removed file",
			logging.String(logging.FieldPath, candidate.RelPath),
			logging.Float64("size_mb", candidate.SizeMB),
			logging.String(logging.FieldReasons, classify.ReasonsString(candidate.Reasons)),
		)
	}
}
